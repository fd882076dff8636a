package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/deskscene"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := deskscene.ParseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	modules, err := cfg.Modules()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	deskscene.NewAppBuilder().
		UseStates(deskscene.StateLoading, deskscene.StateShutdown).
		UseModule(modules...).
		Build().
		Run()
}
