// objtool is a CLI utility for inspecting the map object table of a ROM.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/Faultbox/ffmq-rando/internal/config"
	"github.com/Faultbox/ffmq-rando/pkg/mapobjects"
	"github.com/Faultbox/ffmq-rando/pkg/maps"
	"github.com/Faultbox/ffmq-rando/pkg/rom"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "areas", "ls":
		cmdAreas(args)
	case "dump":
		cmdDump(args)
	case "maps":
		cmdMaps(args)
	case "init-config":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - FFMQ map object table utility

Usage:
  objtool <command> [options]

Commands:
  info <rom>                 Show table statistics
  areas <rom>                List collections with their slots and map ids
  dump <rom> <slot>          Print the records reachable through a slot
  maps <dir>                 List the tile maps of a directory
  init-config <path>         Write a default configuration file

Layout options (info, areas, dump):
  -table <offset>            Pointer table offset
  -slots <count>             Pointer slot count
  -base <offset>             Base address of the area data

Examples:
  objtool info ffmq.sfc
  objtool dump -slots 0x6C ffmq.sfc 0x16
  objtool maps ./maps`)
}

func layoutFlags(fs *flag.FlagSet) *mapobjects.Layout {
	def := mapobjects.DefaultLayout()
	l := &mapobjects.Layout{}
	fs.IntVar(&l.PointerTable, "table", def.PointerTable, "Pointer table offset")
	fs.IntVar(&l.SlotCount, "slots", def.SlotCount, "Pointer slot count")
	fs.IntVar(&l.DataBase, "base", def.DataBase, "Base address of the area data")
	return l
}

func loadTable(path string, layout mapobjects.Layout) *mapobjects.ObjectList {
	img, err := rom.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ol, err := mapobjects.Load(img, layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return ol
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	layout := layoutFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info <rom>")
		os.Exit(1)
	}

	ol := loadTable(fs.Arg(0), *layout)

	typeCount := make(map[mapobjects.ObjectType]int)
	records := 0
	for i := 0; i < ol.Len(); i++ {
		for _, r := range ol.Collection(i) {
			typeCount[r.Type]++
			records++
		}
	}

	fmt.Printf("ROM:         %s\n", fs.Arg(0))
	fmt.Printf("Slots:       %d\n", ol.SlotCount())
	fmt.Printf("Collections: %d\n", ol.Len())
	fmt.Printf("Records:     %d\n", records)
	fmt.Printf("Chests:      %d registered\n", len(ol.Chests()))
	fmt.Println()
	fmt.Println("Records by type:")

	types := make([]mapobjects.ObjectType, 0, len(typeCount))
	for t := range typeCount {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Printf("  %-10s %d\n", t, typeCount[t])
	}
}

func cmdAreas(args []string) {
	fs := flag.NewFlagSet("areas", flag.ExitOnError)
	layout := layoutFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool areas <rom>")
		os.Exit(1)
	}

	ol := loadTable(fs.Arg(0), *layout)

	fmt.Println("COLL  MAP  SLOTS  RECORDS  BATTLES")
	for i := 0; i < ol.Len(); i++ {
		battles := 0
		for _, r := range ol.Collection(i) {
			if r.Type == mapobjects.Battle {
				battles++
			}
		}
		fmt.Printf("%#04x  %02X   %5d  %7d  %7d\n", i, ol.AreaMapID(i), ol.SlotsOf(i), len(ol.Collection(i)), battles)
	}
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	layout := layoutFlags(fs)
	raw := fs.Bool("raw", false, "Print raw record bytes")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: objtool dump <rom> <slot>")
		os.Exit(1)
	}

	ol := loadTable(fs.Arg(0), *layout)

	slot, err := strconv.ParseInt(fs.Arg(1), 0, 0)
	if err != nil || slot < 0 || int(slot) >= ol.SlotCount() {
		fmt.Fprintf(os.Stderr, "Invalid slot %q (table has %d slots)\n", fs.Arg(1), ol.SlotCount())
		os.Exit(1)
	}

	c := ol.CollectionIndex(int(slot))
	fmt.Printf("Slot %#04x -> collection %#04x, map %02X, offset %#04x\n", slot, c, ol.AreaMapID(c), ol.Pointer(int(slot)))
	records := ol.Area(int(slot))
	for i := range records {
		if *raw {
			fmt.Printf("  %02X  %s\n", i, records[i].Hex())
			continue
		}
		fmt.Printf("  %02X  %s\n", i, records[i])
	}
}

func cmdMaps(args []string) {
	fs := flag.NewFlagSet("maps", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool maps <dir>")
		os.Exit(1)
	}

	set, err := maps.LoadDir(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, id := range set.IDs() {
		m, _ := set.Get(id)
		fmt.Printf("%02X  %-20s %dx%d  layers=%v\n", id, m.Name, m.Width, m.Height, m.CountByLayer())
	}
	fmt.Fprintf(os.Stderr, "\n(%d maps)\n", set.Len())
}

func cmdInitConfig(args []string) {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	fs.Parse(args)

	path := "config.yaml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if err := config.Default().SaveTo(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}
