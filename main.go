package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarthome/camserve/camera"
	"github.com/smarthome/camserve/server"
	"github.com/smarthome/camserve/site"
)

func main() {
	addr := flag.String("addr", server.DefaultAddr, "listen address")
	debug := flag.Int("debug", 0, "debug level: -1 quiet, 0 requests, 1 debug, 2 trace")
	lazyInit := flag.Bool("lazy-init", false, "initialize mounted apps on first request")
	framesDir := flag.String("frames", "frames", "directory of .jpg frames played back as the camera")
	frameInterval := flag.Duration("frame-interval", 50*time.Millisecond, "pause between video frames")
	headerTimeout := flag.Duration("header-timeout", 10*time.Second, "limit for reading the request line and headers")
	maxHeaderBytes := flag.Int64("max-header-bytes", server.DefaultMaxHeaderBytes, "limit for the size of the request line and headers")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch {
	case *debug < 0:
		logger.SetLevel(logrus.ErrorLevel)
	case *debug == 0:
		logger.SetLevel(logrus.InfoLevel)
	default:
		logger.SetLevel(logrus.DebugLevel)
	}

	cam := camera.New(&camera.DirSource{Dir: *framesDir})

	var srv *server.Server
	app := site.New(cam, func() server.Stats { return srv.Stats() }, site.Config{
		FrameInterval: *frameInterval,
		Logger:        logger,
	})
	srv = server.New(app, server.Config{
		Addr:              *addr,
		Debug:             *debug,
		LazyInit:          *lazyInit,
		ReadHeaderTimeout: *headerTimeout,
		MaxHeaderBytes:    *maxHeaderBytes,
	}, logger)

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigC
		logger.WithField("signal", sig.String()).Info("shutting down")
		srv.Close()
	}()

	logger.WithField("addr", *addr).Info("camera server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, server.ErrServerClosed) {
		logger.WithError(err).Fatal("server stopped")
	}
}
