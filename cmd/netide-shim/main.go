/*
 * NetIDE Shim - OpenFlow to NetIDE Core Relay
 *
 * Copyright (C) 2026 The NetIDE Shim Authors.
 *
 * Derived from Cherry - An OpenFlow Controller,
 * Copyright (C) 2015 Samjung Data Service, Inc.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/hashsdn/hashsdn-netide/api"
	"github.com/hashsdn/hashsdn-netide/core"
	"github.com/hashsdn/hashsdn-netide/log"
	"github.com/hashsdn/hashsdn-netide/network"
	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/codec"

	"github.com/fsnotify/fsnotify"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	programName     = "netide-shim"
	programVersion  = "0.1.0"
	defaultLogLevel = logging.INFO
)

var (
	logger            = logging.MustGetLogger("main")
	loggerLeveled     logging.LeveledBackend
	showVersion       = flag.Bool("version", false, "Show program version and exit")
	defaultConfigFile = flag.String("config", fmt.Sprintf("/usr/local/etc/%v.yaml", programName), "absolute path of the configuration file")
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	flag.Parse()
	if *showVersion {
		fmt.Printf("Version: %v\n", programVersion)
		os.Exit(0)
	}

	initConfig()
	if err := initLog(getLogLevel(viper.GetString("default.log_level"))); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init log: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	channel, err := core.Dial(ctx, viper.GetString("core.endpoint"), viper.GetString("core.identity"))
	if err != nil {
		logger.Fatalf("failed to connect to the core: %v", err)
	}
	defer channel.Close()

	maxVersion, _ := parseVersion(viper.GetString("default.max_version"))
	controller, err := network.NewController(codec.NewRegistry(), channel, network.Config{
		MaxVersion:      maxVersion,
		FeaturesTimeout: time.Duration(viper.GetInt("default.features_timeout")) * time.Second,
	})
	if err != nil {
		logger.Fatalf("failed to create the controller: %v", err)
	}
	initCoreChannel(ctx, channel, controller)
	initAPIServer(controller)
	initSignalHandler(controller, cancel)

	listen(ctx, viper.GetInt("default.port"), controller)
}

func setDefaults() {
	viper.SetDefault("default.port", 6633)
	viper.SetDefault("default.log_level", "info")
	viper.SetDefault("default.log_backend", "syslog")
	viper.SetDefault("default.max_version", "1.3")
	viper.SetDefault("default.features_timeout", 5)
	viper.SetDefault("core.endpoint", "tcp://127.0.0.1:5555")
	viper.SetDefault("core.identity", "shim")
	viper.SetDefault("core.heartbeat", 0)
	viper.SetDefault("rest.port", 7070)
}

func initConfig() {
	setDefaults()
	viper.SetConfigFile(*defaultConfigFile)
	// Read the config file.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read the config file: %v\n", err)
		os.Exit(1)
	}
	// Watching and re-reading config file whenever it changes.
	viper.OnConfigChange(func(e fsnotify.Event) {
		// Ignore the WRITE operation to avoid reading empty config.
		if e.Op != fsnotify.Write {
			return
		}

		if loggerLeveled != nil {
			// Set log level for all modules
			loggerLeveled.SetLevel(getLogLevel(viper.GetString("default.log_level")), "")
		}
	})
	viper.WatchConfig()
	if err := validateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to validate the configuration: %v\n", err)
		os.Exit(1)
	}
}

func validateConfig() error {
	if port := viper.GetInt("default.port"); port <= 0 || port > 0xFFFF {
		return errors.New("invalid default.port")
	}
	if len(viper.GetString("default.log_level")) == 0 {
		return errors.New("invalid default.log_level")
	}
	switch strings.ToLower(viper.GetString("default.log_backend")) {
	case "syslog", "stderr":
	default:
		return errors.New("invalid default.log_backend")
	}
	if _, err := parseVersion(viper.GetString("default.max_version")); err != nil {
		return errors.Wrap(err, "invalid default.max_version")
	}
	if viper.GetInt("default.features_timeout") <= 0 {
		return errors.New("invalid default.features_timeout")
	}
	if len(viper.GetString("core.endpoint")) == 0 {
		return errors.New("invalid core.endpoint")
	}
	if len(viper.GetString("core.identity")) == 0 {
		return errors.New("invalid core.identity")
	}
	if viper.GetInt("core.heartbeat") < 0 {
		return errors.New("invalid core.heartbeat")
	}
	if port := viper.GetInt("rest.port"); port <= 0 || port > 0xFFFF {
		return errors.New("invalid rest.port")
	}
	if viper.GetBool("rest.tls") {
		if len(viper.GetString("rest.cert_file")) == 0 || len(viper.GetString("rest.key_file")) == 0 {
			return errors.New("rest.tls requires rest.cert_file and rest.key_file")
		}
	}

	return nil
}

func parseVersion(v string) (uint8, error) {
	switch strings.TrimSpace(v) {
	case "1.0":
		return openflow.OF10_VERSION, nil
	case "1.3":
		return openflow.OF13_VERSION, nil
	default:
		return 0, fmt.Errorf("unknown OpenFlow version: %v", v)
	}
}

func initCoreChannel(ctx context.Context, channel *core.Channel, controller *network.Controller) {
	go func() {
		if err := channel.Run(ctx, controller); err != nil {
			logger.Fatalf("core channel is terminated: %v", err)
		}
		logger.Debugf("core channel terminated")
	}()

	if interval := viper.GetInt("core.heartbeat"); interval > 0 {
		go channel.RunHeartbeat(ctx, time.Duration(interval)*time.Second)
	}
}

func initAPIServer(controller *network.Controller) {
	go func() {
		srv := &api.Server{}
		srv.Port = uint16(viper.GetInt("rest.port"))
		if viper.GetBool("rest.tls") == true {
			srv.TLS.Cert = viper.GetString("rest.cert_file")
			srv.TLS.Key = viper.GetString("rest.key_file")
		}
		srv.Controller = controller

		if err := srv.Serve(); err != nil {
			logger.Fatalf("failed to run the API server: %v", err)
		}
	}()
}

func initSignalHandler(controller *network.Controller, cancel context.CancelFunc) {
	go func() {
		c := make(chan os.Signal, 5)
		signal.Notify(c, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)

		// Infinte loop.
		for {
			s := <-c
			if s == syscall.SIGTERM || s == syscall.SIGINT {
				// Graceful shutdown
				logger.Warning("Shutting down...")
				cancel()
				// Timeout for cancelation
				time.Sleep(5 * time.Second)
				os.Exit(0)
			} else if s == syscall.SIGHUP {
				fmt.Println("* Controller status:")
				fmt.Println(controller.String())
			}
		}
	}()
}

func initLog(level logging.Level) error {
	backend, err := log.Setup(programName, viper.GetString("default.log_backend"), level)
	if err != nil {
		return err
	}
	loggerLeveled = backend

	return nil
}

func getLogLevel(level string) logging.Level {
	level = strings.ToUpper(level)
	ret, err := logging.LogLevel(level)
	if err != nil {
		logger.Infof("invalid log level=%v, defaulting to %v..", level, defaultLogLevel)
		return defaultLogLevel
	}

	return ret
}

func listen(ctx context.Context, port int, controller *network.Controller) {
	type KeepAliver interface {
		SetKeepAlive(keepalive bool) error
		SetKeepAlivePeriod(d time.Duration) error
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%v", port))
	if err != nil {
		logger.Errorf("failed to listen on %v port: %v", port, err)
		return
	}
	defer listener.Close()

	// Connection dispatcher.
	f := func(c chan<- net.Conn) {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
				}
				logger.Errorf("failed to accept a new connection: %v", err)
				continue
			}
			logger.Infof("new switch is connected from %v", conn.RemoteAddr())

			// Pass the new connection into the backlog queue.
			c <- conn
		}
	}
	backlog := make(chan net.Conn, 32)
	go f(backlog)

	// Infinite loop
	for {
		select {
		case <-ctx.Done():
			logger.Debug("terminating the main listener loop...")
			return
		case conn := <-backlog:
			if v, ok := conn.(KeepAliver); ok {
				if err := v.SetKeepAlive(true); err == nil {
					// Makes a broken connection will be disconnected within 45 seconds.
					v.SetKeepAlivePeriod(time.Duration(5) * time.Second)
				} else {
					logger.Errorf("failed to enable socket keepalive: %v", err)
				}
			}
			controller.AddConnection(ctx, conn)
		}
	}
}
