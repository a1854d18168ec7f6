// Command miniscript is a minimal demonstration host for the
// miniscript engine. A full CLI/REPL/file-loading harness is out of
// scope for the core (spec.md §1) — this just wires a Machine, installs
// the core library, and runs one hand-assembled program, since the
// lexer/parser/TAC generator that would normally produce that program
// from source text is also out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	ms "github.com/phroun/miniscript"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := ms.NewDefaultConfig()
	cfg.Debug = *debug

	vm := ms.NewMachine(cfg)
	ms.InstallCoreLibrary(vm)
	vm.SetOutputSinks(
		func(s string) { fmt.Fprint(os.Stdout, s) },
		func(s string) { fmt.Fprint(os.Stderr, s) },
		func(s string) { fmt.Fprintln(os.Stdout, s) },
	)

	// x = 2 + 3 * 4  (spec.md §8 scenario 1)
	t0 := ms.T(0)
	t1 := ms.T(1)
	fn := ms.NewFunction(nil, []*ms.Line{
		ms.NewLine(t0, ms.ATimesB, ms.CreateNumber(3), ms.CreateNumber(4), 1),
		ms.NewLine(t1, ms.APlusB, ms.CreateNumber(2), t0, 1),
		ms.NewLine(ms.V("x"), ms.AssignA, t1, nil, 1),
		ms.NewLine(nil, ms.ReturnA, ms.V("x"), nil, 1),
	})

	vm.Start(fn, nil)
	done, err := vm.RunUntilDone(0, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !done {
		fmt.Fprintln(os.Stderr, "program did not complete within its step budget")
		os.Exit(1)
	}
	fmt.Println(vm.LastResult().ToString(vm))
}
