// Command ofcontroller runs a minimal OpenFlow 1.0 controller: it
// listens for switch connections, runs the connection handshake, and
// hands each switch to the learning-switch example application.
package main

import (
	"flag"
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ofswitch/of10ctrl/examples/learningswitch"
	"github.com/ofswitch/of10ctrl/ofctrl"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:6633", "address to listen for switch connections on")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		log.WithError(err).Fatal("failed to listen")
	}
	defer ln.Close()
	log.WithField("addr", ln.Addr().String()).Info("listening for OpenFlow switches")

	app := learningswitch.New(log)

	if err := serve(ln, app, log); err != nil {
		log.WithError(err).Fatal("listener stopped")
		os.Exit(1)
	}
}

// serve accepts connections in a loop, handing each to its own
// goroutine running the per-connection state machine. It never returns
// except when the listener itself fails.
func serve(ln net.Listener, app ofctrl.Application, log *logrus.Logger) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		entry := log.WithField("remote", conn.RemoteAddr().String())
		entry.Info("switch connected")

		go func() {
			c := ofctrl.NewConnection(conn, app, entry)
			if err := c.Serve(); err != nil {
				entry.WithError(err).Info("connection ended")
			}
		}()
	}
}
