// animtool is a CLI utility for inspecting skeletal animation files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// demoName selects the built-in procedural rig instead of a file.
const demoName = "demo"

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
	case "bones":
		cmdBones(args)
	case "sample":
		cmdSample(args)
	case "export-demo":
		cmdExportDemo(args)
	case "level":
		cmdLevel(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`animtool - skeletal animation utility

Usage:
  animtool <command> [options]

Commands:
  info <anim.yaml|demo>                     Show skeleton and clip summary
  bones <anim.yaml|demo>                    Print the bone hierarchy
  sample <anim.yaml|demo> <clip> <seconds>  Print bone positions at a time
  export-demo [-o file] [clip...]           Write the procedural rig as YAML
  level <level.txt>                         Summarize a level file

Examples:
  animtool info assets/runner.yaml
  animtool sample demo "run forward" 0.25 -bone head
  animtool export-demo -o runner.yaml "run forward" death`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func load(name string) *animation.Animation {
	var (
		anim *animation.Animation
		err  error
	)
	if name == demoName {
		anim, err = animation.DemoRig()
	} else {
		anim, err = animation.LoadFile(name)
	}
	if err != nil {
		fail("Error: %v", err)
	}
	return anim
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fail("Usage: animtool info <anim.yaml|demo>")
	}
	anim := load(args[0])
	skel := anim.Skeleton()

	roots := 0
	for _, b := range skel.Bones {
		if b.Parent == animation.NoBone {
			roots++
		}
	}

	fmt.Printf("Animation: %s\n", args[0])
	fmt.Printf("Bones:     %d (%d roots)\n", skel.Len(), roots)
	fmt.Printf("Clips:     %d\n", len(anim.ClipNames()))
	fmt.Println()

	for _, name := range anim.ClipNames() {
		seq, _ := anim.Clip(name)
		fmt.Printf("  %-16s %4d frames  %6.1f tps  %6.3fs\n",
			name, len(seq.Frames), seq.TicksPerSecond, seq.Duration())
	}
}

func cmdBones(args []string) {
	if len(args) < 1 {
		fail("Usage: animtool bones <anim.yaml|demo>")
	}
	skel := load(args[0]).Skeleton()

	children := make(map[int][]int)
	for i, b := range skel.Bones {
		children[b.Parent] = append(children[b.Parent], i)
	}

	var walk func(id, depth int)
	walk = func(id, depth int) {
		b := skel.Bones[id]
		indent := strings.Repeat("  ", depth)
		if bind, err := b.Offset.Inverse(); err != nil {
			fmt.Printf("%s%-3d %s (singular offset)\n", indent, id, b.Name)
		} else {
			p := bind.Translation()
			fmt.Printf("%s%-3d %s  bind (%.3f, %.3f, %.3f)\n", indent, id, b.Name, p.X, p.Y, p.Z)
		}
		for _, c := range children[id] {
			walk(c, depth+1)
		}
	}
	for _, root := range children[animation.NoBone] {
		walk(root, 0)
	}
}

func cmdSample(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	bone := fs.String("bone", "", "Only print this bone")
	zUp := fs.Bool("zup", false, "Apply the z-up to y-up correction")
	// Allow options after the positional arguments.
	var positional []string
	for len(args) > 0 {
		fs.Parse(args)
		args = fs.Args()
		if len(args) > 0 {
			positional = append(positional, args[0])
			args = args[1:]
		}
	}

	if len(positional) < 3 {
		fail("Usage: animtool sample <anim.yaml|demo> <clip> <seconds> [-bone name] [-zup]")
	}
	anim := load(positional[0])
	clip := positional[1]
	t, err := strconv.ParseFloat(positional[2], 32)
	if err != nil || t < 0 {
		fail("Invalid time: %s", positional[2])
	}

	coord := math.Identity()
	if *zUp {
		coord = math.AxisSwapZUp()
	}

	inst := animation.NewInstance(anim, coord)
	// The first update selects the clip; the second advances to t.
	if err := inst.Update(clip, 0); err != nil {
		fail("Error: %v", err)
	}
	if err := inst.Update(clip, float32(t)); err != nil {
		fail("Error: %v", err)
	}

	fmt.Printf("Clip %q at %.3fs (finished: %v)\n", clip, t, inst.AnimationFinished())

	skel := anim.Skeleton()
	names := []string{*bone}
	if *bone == "" {
		names = names[:0]
		for _, b := range skel.Bones {
			names = append(names, b.Name)
		}
	}
	for _, name := range names {
		m, err := inst.FindWorldMatrix(name)
		if err != nil {
			fail("Error: %v", err)
		}
		p := m.Translation()
		fmt.Printf("  %-12s (%8.3f, %8.3f, %8.3f)\n", name, p.X, p.Y, p.Z)
	}
}

func cmdExportDemo(args []string) {
	fs := flag.NewFlagSet("export-demo", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default stdout)")
	fs.Parse(args)

	anim, err := animation.DemoRig(fs.Args()...)
	if err != nil {
		fail("Error: %v", err)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fail("Error creating file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := animation.Encode(out, anim); err != nil {
		fail("Error encoding: %v", err)
	}
	if *output != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bones, %d clips)\n", *output, anim.BoneCount(), len(anim.ClipNames()))
	}
}

func cmdLevel(args []string) {
	if len(args) < 1 {
		fail("Usage: animtool level <level.txt>")
	}
	tiles, err := terrain.LoadLevelConfig(args[0])
	if err != nil {
		fail("Error: %v", err)
	}

	lanes := make(map[terrain.Lane]int)
	decorations := 0
	for _, t := range tiles {
		lanes[t.Lane]++
		decorations += t.Decorations
	}

	fmt.Printf("Level:       %s\n", args[0])
	fmt.Printf("Tiles:       %d\n", len(tiles))
	fmt.Printf("Decorations: %d\n", decorations)
	for _, l := range []terrain.Lane{terrain.LaneNone, terrain.LaneLeft, terrain.LaneRight} {
		fmt.Printf("  %-6s %d\n", l.String(), lanes[l])
	}
}
