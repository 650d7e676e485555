package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/physic"

	"panelctl/internal/config"
	"panelctl/internal/ctl"
	"panelctl/internal/dbi"
	"panelctl/internal/hwio"
	appLog "panelctl/internal/log"
	"panelctl/internal/panel"
	"panelctl/internal/sched"
	"panelctl/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	brightness int
	off        bool
	once       bool
	noHTTP     bool
}

func main() {
	appLog.Info("panelctl starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	prof, err := conf.Profile()
	if err != nil {
		appLog.Error("bad panel revision in config", err)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"revision", prof.Name,
		"spi_port", conf.SPI.Port,
		"reset_pin", conf.Pins.Reset,
		"power_pin", conf.Pins.Power,
		"aux_pin", conf.Pins.Aux,
		"brightness", conf.Brightness,
	)

	ctrl, closeHW, err := buildController(conf, prof)
	if err != nil {
		appLog.Error("hardware setup failed", err)
		os.Exit(1)
	}
	defer closeHW()

	if flags.off {
		if err := ctrl.Down(); err != nil {
			appLog.Error("power down failed", err)
			os.Exit(1)
		}
		appLog.Info("panel powered down")
		return
	}

	if err := ctrl.Up(); err != nil {
		appLog.Error("panel bring-up failed", err)
		os.Exit(1)
	}
	appLog.Info("panel enabled", "state", ctrl.State().String())

	level := conf.Brightness
	if flags.brightness >= 0 {
		level = flags.brightness
	}
	if err := ctrl.SetBrightness(uint16(level)); err != nil {
		appLog.Warn("initial brightness not applied", "err", err, "value", level)
	}

	if flags.once {
		// Bring-up only: leave the panel on and exit.
		return
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	scheduler, err := sched.New(conf.Schedule, ctrl)
	if err != nil {
		appLog.Error("bad blanking schedule", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()
	appLog.Info("blanking schedule armed", "jobs", scheduler.Jobs())

	if !flags.noHTTP {
		srv := &http.Server{
			Addr:    conf.Listen,
			Handler: web.NewServer(ctrl, panel.DefaultTiming()).Handler(),
		}
		go func() {
			appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLog.Error("HTTP server failed", err)
				cancel()
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 3*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	<-ctx.Done()

	if err := ctrl.Down(); err != nil {
		appLog.Error("power down on exit failed", err)
	}
	appLog.Info("panelctl exiting")
}

// buildController opens the SPI bridge and GPIO lines and assembles the
// panel handle behind its serializing controller. The returned close
// function releases the SPI port.
func buildController(conf *config.Config, prof panel.Profile) (*ctl.Controller, func(), error) {
	if err := hwio.Init(); err != nil {
		return nil, nil, err
	}

	link, err := dbi.Open(conf.SPI.Port, conf.Pins.DC, physic.Frequency(conf.SPI.Hz)*physic.Hertz)
	if err != nil {
		return nil, nil, err
	}

	power, err := hwio.NewRail(conf.Pins.Power, conf.Pins.PowerActiveLow)
	if err != nil {
		_ = link.Close()
		return nil, nil, err
	}
	reset, err := hwio.NewLine(conf.Pins.Reset)
	if err != nil {
		_ = link.Close()
		return nil, nil, err
	}

	opts := panel.Opts{Profile: prof}
	if conf.Pins.Aux != "" {
		opts.Aux = hwio.NewAuxLine(conf.Pins.Aux)
	}

	p := panel.New(link, power, reset, opts)
	return ctl.New(p), func() { _ = link.Close() }, nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/panelctl/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.IntVar(&cfg.brightness, "brightness", -1, "Brightness 0-255 to apply after bring-up (overrides config)")
	flag.BoolVar(&cfg.off, "off", false, "Power the panel down and exit")
	flag.BoolVar(&cfg.once, "once", false, "Bring the panel up, leave it on and exit")
	flag.BoolVar(&cfg.noHTTP, "no-http", false, "Do not start the HTTP control API")

	flag.Parse()

	return cfg
}
