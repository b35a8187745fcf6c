// Command nl80211ctl is a CLI wrapping package wifi's nl80211 Operation
// Layer, replacing shell invocations of iw/iwconfig for the operations
// this library implements (spec §1).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/prometheusx"
	"github.com/m-lab/go/rtx"

	"github.com/wifinl/nl80211ctl/monitor"
	"github.com/wifinl/nl80211ctl/wifi"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

var (
	timeout  = flag.Duration("timeout", 2*time.Second, "Receive timeout for the underlying netlink handle.")
	promPort = flag.String("prom", "", "Prometheus metrics export address and port, e.g. ':9090'. Empty disables it.")
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: nl80211ctl [-timeout d] [-prom addr] <command> [args]

commands:
  phys                                  list every wiphy on the system
  interfaces                            list every interface on the system
  info <ifindex>                        show one interface's Device-Info record
  wiphy <phy>                           show one wiphy's Wiphy-Info record
  set-channel <phy> <freq-MHz> <chtype> set the channel on a wiphy
  set-power-save <ifindex> <on|off>     toggle power-save on an interface
  get-reg                               show the current regulatory domain
  set-reg <alpha2>                      request a regulatory domain change
  monitor <interval>                    poll known interfaces and print changes`)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	flagx.ArgsFromEnv(flag.CommandLine)

	if *promPort != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		srv := prometheusx.MustStartPrometheus(*promPort)
		defer srv.Shutdown(ctx)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	h, err := wifi.Open()
	rtx.Must(err, "Could not open netlink handle")
	defer h.Close()
	rtx.Must(h.SetTimeout(*timeout), "Could not set receive timeout")

	switch args[0] {
	case "phys":
		runPhys(h)
	case "interfaces":
		runInterfaces(h)
	case "info":
		runInfo(h, args[1:])
	case "wiphy":
		runWiphy(h, args[1:])
	case "set-channel":
		runSetChannel(h, args[1:])
	case "set-power-save":
		runSetPowerSave(h, args[1:])
	case "get-reg":
		runGetReg(h)
	case "set-reg":
		runSetReg(h, args[1:])
	case "monitor":
		runMonitor(h, args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func runPhys(h *wifi.Handle) {
	phys, err := h.Phys()
	rtx.Must(err, "phys failed")
	for _, p := range phys {
		fmt.Printf("phy%d: generation=%d retry=%d/%d frag=%s rts=%s\n",
			p.Phy, p.Generation, p.RetryShort, p.RetryLong, p.FragThreshold, p.RTSThreshold)
	}
}

func runInterfaces(h *wifi.Handle) {
	devs, err := h.Interfaces()
	rtx.Must(err, "interfaces failed")
	for _, d := range devs {
		fmt.Println(d.Card)
	}
}

func runInfo(h *wifi.Handle, args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	ifindex, err := strconv.Atoi(args[0])
	rtx.Must(err, "bad ifindex %q", args[0])
	info, err := h.GetInterface(ifindex)
	rtx.Must(err, "get-interface failed")
	fmt.Printf("%+v\n", info)
}

func runWiphy(h *wifi.Handle, args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	phy, err := strconv.Atoi(args[0])
	rtx.Must(err, "bad phy %q", args[0])
	info, err := h.GetWiphy(phy)
	rtx.Must(err, "get-wiphy failed")
	fmt.Printf("%+v\n", info)
}

func runSetChannel(h *wifi.Handle, args []string) {
	if len(args) != 3 {
		usage()
		os.Exit(2)
	}
	phy, err := strconv.Atoi(args[0])
	rtx.Must(err, "bad phy %q", args[0])
	freq, err := strconv.ParseUint(args[1], 10, 32)
	rtx.Must(err, "bad frequency %q", args[1])
	ct, err := strconv.Atoi(args[2])
	rtx.Must(err, "bad channel type %q", args[2])
	rtx.Must(h.SetWiphyFrequency(phy, uint32(freq), wifi.ChannelType(ct)), "set-channel failed")
}

func runSetPowerSave(h *wifi.Handle, args []string) {
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}
	ifindex, err := strconv.Atoi(args[0])
	rtx.Must(err, "bad ifindex %q", args[0])
	state := wifi.PSDisabled
	switch args[1] {
	case "on":
		state = wifi.PSEnabled
	case "off":
		state = wifi.PSDisabled
	default:
		log.Fatalf("power-save state must be 'on' or 'off', got %q", args[1])
	}
	rtx.Must(h.SetPowerSave(ifindex, state), "set-power-save failed")
}

func runGetReg(h *wifi.Handle) {
	alpha2, err := h.GetReg()
	rtx.Must(err, "get-reg failed")
	fmt.Println(alpha2)
}

func runSetReg(h *wifi.Handle, args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	rtx.Must(h.ReqSetReg(args[0]), "set-reg failed")
}

func runMonitor(h *wifi.Handle, args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	interval, err := time.ParseDuration(args[0])
	rtx.Must(err, "bad interval %q", args[0])

	ctx := context.Background()
	changes := make(chan monitor.Change, 8)
	go func() {
		rtx.Must(monitor.Run(ctx, h, interval, 0, changes), "monitor loop failed")
	}()
	for c := range changes {
		if c.Vanished {
			fmt.Printf("%s: %s vanished\n", c.Timestamp.Format(time.RFC3339), c.Device)
		} else {
			fmt.Printf("%s: %s changed to %s\n", c.Timestamp.Format(time.RFC3339), c.Device, c.Card)
		}
	}
}
