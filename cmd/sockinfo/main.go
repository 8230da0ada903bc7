package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sockbase/sockbase/internal/buildinfo"
	"github.com/sockbase/sockbase/internal/log"
	"github.com/sockbase/sockbase/pkg/drain"
	"github.com/sockbase/sockbase/pkg/netinfo"
	"github.com/sockbase/sockbase/pkg/pidfile"
	"github.com/sockbase/sockbase/pkg/socket"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

// Flags flags
type Flags struct {
	iface      string
	family     string
	configFile string
	watch      time.Duration
}

var (
	flags     Flags
	logConfig log.Config
)

func parseFlags() {
	flag.StringVar(&flags.iface, "i", "", "interface name to resolve")
	flag.StringVar(&flags.family, "f", "inet", "address family: inet or inet6")
	flag.StringVar(&flags.configFile, "c", "", "config file path")
	flag.DurationVar(&flags.watch, "watch", 0, "re-resolve on this interval, 0 disables")
	flag.Parse()
}

func initViper(configFile string) error {
	viper.SetConfigFile(configFile)
	return viper.ReadInConfig()
}

func main() {
	fmt.Println("Version:", buildinfo.Version)
	fmt.Println("Git commit:", buildinfo.CommitID)
	fmt.Println("Build time:", buildinfo.BuildTime)
	fmt.Println()

	parseFlags()

	if flags.iface == "" {
		flag.Usage()
		os.Exit(1)
	}

	if flags.configFile != "" {
		err := initViper(flags.configFile)
		if err != nil {
			panic(err)
		}
	}

	if path := viper.GetString("sockinfo.pid"); path != "" {
		pidFile, err := pidfile.Open(path)
		if err != nil {
			panic(err)
		}
		defer pidFile.Close()
	}

	logConfig.LogDir = viper.GetString("log.dir")
	logConfig.AutoClear = viper.GetBool("log.auto_clear")
	logConfig.ClearHours = viper.GetInt("log.clear_hours")
	logConfig.LogLevel = viper.GetString("log.level")
	log.InitLogger(&logConfig)

	family := socket.Inet
	if flags.family == "inet6" {
		family = socket.Inet6
	}

	cfg := socket.Config{Family: family, Type: socket.Dgram}
	// A single worker keeps re-resolutions serialized in watch mode.
	desc, err := socket.NewNetwork(cfg, flags.iface, socket.WithGuard(drain.NewPool(1)))
	if err != nil {
		log.Error().Err(err).Str("iface", flags.iface).Msg("resolve interface failed")
		os.Exit(1)
	}

	info, _ := desc.Netinfo()
	printInfo(flags.iface, info)

	if flags.watch <= 0 {
		desc.Close()
		return
	}

	// Subscribe to signals for terminating the program.
	stopper := make(chan os.Signal, 1)
	signal.Notify(stopper, os.Interrupt, syscall.SIGTERM)

	log.Info().Str("iface", flags.iface).Dur("interval", flags.watch).Msg("watching...")
	stopWatch := make(chan bool, 1)
	go watch(desc, flags.iface, flags.watch, stopWatch)

	<-stopper
	log.Info().Msg("exiting...")
	stopWatch <- true
	desc.Close()
}

// watch re-resolves the interface on every tick and logs address
// changes. Resolution runs through the descriptor's drain guard so an
// in-flight lookup always completes before Close returns. The rate
// limiter caps OS enumeration calls no matter how small the interval is.
func watch(desc *socket.Descriptor, ifname string, interval time.Duration, stop chan bool) {
	limiter := rate.NewLimiter(rate.Every(time.Second), 1)
	resolver := netinfo.NewResolver()
	last, _ := desc.Netinfo()

	family := netinfo.IPv4
	if desc.Family().IsIPv6() {
		family = netinfo.IPv6
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !limiter.Allow() {
				continue
			}
			err := desc.Submit(func() {
				info, err := resolver.Resolve(family, ifname)
				if err != nil {
					log.Warn().Err(err).Str("iface", ifname).Msg("re-resolve failed")
					return
				}
				if *info != *last {
					log.Info().Str("iface", ifname).
						Str("host", info.HostAddr).
						Str("netmask", info.Netmask).
						Str("broadcast", info.Broadcast).
						Uint32("pflen", info.PrefixLen).
						Msg("interface addressing changed")
					last = info
				}
			})
			if err != nil {
				return
			}
		}
	}
}

func printInfo(ifname string, info *netinfo.Info) {
	out := struct {
		Iface     string `json:"iface"`
		HostAddr  string `json:"host_addr"`
		Netmask   string `json:"netmask"`
		Broadcast string `json:"broadcast"`
		PrefixLen uint32 `json:"prefix_len"`
		ScopeID   uint32 `json:"scope_id"`
	}{
		Iface:     ifname,
		HostAddr:  info.HostAddr,
		Netmask:   info.Netmask,
		Broadcast: info.Broadcast,
		PrefixLen: info.PrefixLen,
		ScopeID:   info.ScopeID,
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))
}
