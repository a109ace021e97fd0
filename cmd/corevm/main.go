package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	core "github.com/emberlang/evalcore"
)

func main() {
	var (
		scriptPath = flag.String("script", "", "Path to the source file to run")
		configPath = flag.String("config", "", "Path to a YAML config overlay")
		torture    = flag.Bool("gc-torture", false, "Run the GC on every allocation")
	)
	flag.Parse()

	if *scriptPath == "" {
		log.Fatal("Script not informed")
	}

	in := core.NewInterpreter()

	if *configPath != "" {
		if err := in.Config.LoadYAML(*configPath); err != nil {
			log.Fatalf("Can't load config: %s", err.Error())
		}
		// NewInterpreter already built the GC off the pre-overlay
		// defaults, so gc.torture and gc.disabled are re-synced
		// explicitly here; gc.ballast_bytes from the overlay is not
		// applied to the running GC.
		in.SetGCTorture(in.Config.GetBool("gc.torture"))
		in.SetGCDisabled(in.Config.GetBool("gc.disabled"))
	}
	if *torture {
		in.SetGCTorture(true)
	}

	srcData, err := os.ReadFile(*scriptPath)
	if err != nil {
		log.Fatalf("Can't read script file: %s", err.Error())
	}

	program, err := newReader(in, string(srcData)).ReadAll()
	if err != nil {
		log.Fatalf("Can't read source: %s", err.Error())
	}

	result, err := in.Rescue(func() (core.Cell, error) {
		lvl := in.PushLevel(core.NewFeed(program.Array()), core.EvaluatorExecutor, in.Globals)
		return in.Run(lvl)
	})
	if err != nil {
		log.Fatalf("Uncaught failure: %s", err.Error())
	}

	log.Println(describe(result))
}

func describe(c core.Cell) string {
	switch c.Heart() {
	case core.HeartInteger:
		return strconv.FormatInt(c.AsInteger(), 10)
	case core.HeartDecimal:
		return strconv.FormatFloat(c.AsDecimal(), 'g', -1, 64)
	case core.HeartText:
		return string(c.Bytes())
	case core.HeartNull:
		return "~null~"
	case core.HeartLogic:
		if c.IsTruthy() {
			return "#[true]"
		}
		return "#[false]"
	default:
		return c.Heart().String()
	}
}
