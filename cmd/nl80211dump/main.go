// Command nl80211dump exports the current interface or wiphy population as
// CSV, grounded on cmd/csvtool's read-records/flatten/Marshal shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/m-lab/go/rtx"

	"github.com/wifinl/nl80211ctl/wifi"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

var mode = flag.String("mode", "interfaces", "What to dump: 'interfaces' or 'phys'.")

// interfaceRow is a CSV-flattened wifi.DeviceInfo: gocsv can't traverse the
// nested Card or pointer-valued optional fields directly.
type interfaceRow struct {
	Phy          int    `csv:"phy"`
	Device       string `csv:"device"`
	Ifindex      int    `csv:"ifindex"`
	IfType       string `csv:"iftype"`
	Wdev         uint64 `csv:"wdev"`
	HardwareMAC  string `csv:"hwaddr"`
	Frequency    string `csv:"frequency_mhz"`
	ChannelWidth string `csv:"channel_width"`
}

// phyRow is a CSV-flattened wifi.WiphyInfo.
type phyRow struct {
	Phy              int    `csv:"phy"`
	Generation       uint32 `csv:"generation"`
	RetryShort       uint8  `csv:"retry_short"`
	RetryLong        uint8  `csv:"retry_long"`
	FragThreshold    string `csv:"frag_threshold"`
	RTSThreshold     string `csv:"rts_threshold"`
	CoverageClass    uint8  `csv:"coverage_class"`
	MaxScanSSIDs     uint8  `csv:"max_scan_ssids"`
	NumFrequencies   int    `csv:"num_frequencies"`
	SupportedCmdsCSV string `csv:"supported_commands"`
}

func toInterfaceRows(devs []wifi.DeviceInfo) []*interfaceRow {
	rows := make([]*interfaceRow, 0, len(devs))
	for _, d := range devs {
		row := &interfaceRow{
			Phy:     d.Card.Phy,
			Device:  d.Card.Device,
			Ifindex: d.Card.Ifindex,
			IfType:  fmt.Sprintf("%d", d.IfType),
			Wdev:    d.Wdev,
		}
		if len(d.HardwareMAC) == 6 {
			row.HardwareMAC = fmt.Sprintf("%x", d.HardwareMAC)
		}
		if d.Frequency != nil {
			row.Frequency = fmt.Sprintf("%d", *d.Frequency)
		}
		if d.ChannelWidth != nil {
			row.ChannelWidth = fmt.Sprintf("%d", *d.ChannelWidth)
		}
		rows = append(rows, row)
	}
	return rows
}

func toPhyRows(phys []wifi.WiphyInfo) []*phyRow {
	rows := make([]*phyRow, 0, len(phys))
	for _, p := range phys {
		cmds := ""
		for i, c := range p.SupportedCommands {
			if i > 0 {
				cmds += ";"
			}
			cmds += c
		}
		rows = append(rows, &phyRow{
			Phy:              p.Phy,
			Generation:       p.Generation,
			RetryShort:       p.RetryShort,
			RetryLong:        p.RetryLong,
			FragThreshold:    p.FragThreshold.String(),
			RTSThreshold:     p.RTSThreshold.String(),
			CoverageClass:    p.CoverageClass,
			MaxScanSSIDs:     p.MaxScanSSIDs,
			NumFrequencies:   len(p.Frequencies),
			SupportedCmdsCSV: cmds,
		})
	}
	return rows
}

func main() {
	flag.Parse()

	h, err := wifi.Open()
	rtx.Must(err, "Could not open netlink handle")
	defer h.Close()

	switch *mode {
	case "interfaces":
		devs, err := h.Interfaces()
		rtx.Must(err, "Could not enumerate interfaces")
		rtx.Must(gocsv.Marshal(toInterfaceRows(devs), os.Stdout), "Could not write CSV")
	case "phys":
		phys, err := h.Phys()
		rtx.Must(err, "Could not enumerate wiphys")
		rtx.Must(gocsv.Marshal(toPhyRows(phys), os.Stdout), "Could not write CSV")
	default:
		log.Fatalf("unknown -mode %q, want 'interfaces' or 'phys'", *mode)
	}
}
