package miniscript

import "fmt"

// InstallCoreLibrary wires the ambient infrastructure a real standard
// library depends on but whose builtin bodies are out of scope (§1):
// the five empty default-type prototype Maps IsA/member lookup walks
// against (§4.3 rule 3, §6), and a minimal "print" intrinsic so the
// CallIntrinsicA / suspend-resume calling contract (§4.6) has at least
// one concrete exerciser. A host embedding this engine is expected to
// layer its actual math/string/list/map builtins on top of this.
func InstallCoreLibrary(vm *Machine) {
	vm.InstallTypes(CreateMap(), CreateMap(), CreateMap(), CreateMap(), CreateMap())

	print := NewIntrinsic("print").AddParam("value", CreateString(""))
	print.Func = func(ctx *Context, args []Value, partial interface{}) (Value, interface{}, bool, error) {
		text := ""
		if len(args) > 0 {
			text = args[0].ToString(ctx.vm)
		}
		if ctx.vm.standardOutput != nil {
			ctx.vm.standardOutput(text + "\n")
		} else {
			fmt.Println(text)
		}
		return Null(), nil, true, nil
	}
	vm.RegisterIntrinsic(print)
}
