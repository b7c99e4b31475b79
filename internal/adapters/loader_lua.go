package adapters

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"pkgforge/internal/core"
	"pkgforge/internal/ports"
	"pkgforge/internal/types"
)

// definitionFunctionName is the nullary function a package.lua file is
// expected to define, per spec.md §4.5 step 4.
const definitionFunctionName = "get_package"

// LuaLoaderAdapter executes package.lua definition files inside a
// single process-wide *lua.LState, initialised once and guarded by a
// mutex that Load holds from executing the file until it returns:
// executing, invoking get_package, dispatching its return shape and
// converting the result into a Package all run under the lock. Only
// file I/O (step 1) happens outside it, so a parallel Storage scan
// isn't serialised on reading files. baseGlobals is a snapshot of the runtime's global table taken
// right after registerLuaGlobals; every Load restores the table to
// that snapshot afterward, so a definition file that assigns a bare
// (non-local) global cannot leak into the next file loaded by the same
// scan — spec.md §4.5 step 2's "fresh global binding environment".
type LuaLoaderAdapter struct {
	once        sync.Once
	state       *lua.LState
	baseGlobals map[string]lua.LValue
	mu          sync.Mutex
}

func NewLuaLoaderAdapter() *LuaLoaderAdapter {
	return &LuaLoaderAdapter{}
}

func (a *LuaLoaderAdapter) runtime() *lua.LState {
	a.once.Do(func() {
		a.state = lua.NewState()
		registerLuaGlobals(a.state)
		a.baseGlobals = snapshotGlobals(a.state)
	})
	return a.state
}

// snapshotGlobals captures every name currently bound in L's global
// table.
func snapshotGlobals(L *lua.LState) map[string]lua.LValue {
	out := map[string]lua.LValue{}
	L.G.Global.ForEach(func(k, v lua.LValue) {
		out[k.String()] = v
	})
	return out
}

// resetGlobals restores L's global table to base: any name absent from
// base is cleared, any name present in base is set back to its
// original value, undoing whatever a just-executed definition file
// bound or overwrote.
func (a *LuaLoaderAdapter) resetGlobals(L *lua.LState) {
	var stale []lua.LValue
	L.G.Global.ForEach(func(k, v lua.LValue) {
		if _, ok := a.baseGlobals[k.String()]; !ok {
			stale = append(stale, k)
		}
	})
	for _, k := range stale {
		L.G.Global.RawSet(k, lua.LNil)
	}
	for name, v := range a.baseGlobals {
		L.SetGlobal(name, v)
	}
}

func (a *LuaLoaderAdapter) Load(ctx context.Context, definitionPath string) (types.Package, error) {
	data, err := os.ReadFile(definitionPath)
	if err != nil {
		return types.Package{}, errFileNotFound(definitionPath, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	L := a.runtime()
	defer a.resetGlobals(L)

	if err := L.DoString(string(data)); err != nil {
		return types.Package{}, errExecutionError(definitionPath, err)
	}

	fn, ok := L.GetGlobal(definitionFunctionName).(*lua.LFunction)
	if !ok {
		return types.Package{}, errMissingFunction(definitionPath)
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return types.Package{}, errExecutionError(definitionPath, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return types.Package{}, errInvalidReturn(definitionPath)
	}

	// Dispatch: a builder-type instance and a plain mapping are both
	// Lua tables shaped the same way once built, so the only shape
	// that needs special handling is the third: an object exposing a
	// to_dict() projection.
	if toDict, ok := tbl.RawGetString("to_dict").(*lua.LFunction); ok {
		if err := L.CallByParam(lua.P{Fn: toDict, NRet: 1, Protect: true}, tbl); err != nil {
			return types.Package{}, errExecutionError(definitionPath, err)
		}
		mapped := L.Get(-1)
		L.Pop(1)
		mtbl, ok := mapped.(*lua.LTable)
		if !ok {
			return types.Package{}, errInvalidReturn(definitionPath)
		}
		tbl = mtbl
	}

	return packageFromLuaTable(definitionPath, tbl)
}

func packageFromLuaTable(path string, tbl *lua.LTable) (types.Package, error) {
	base := luaTableString(tbl, "base")
	if base == "" || !baseNamePattern.MatchString(base) {
		return types.Package{}, errInvalidPackage(path, nil)
	}
	version, err := core.ParseVersionExact(luaTableString(tbl, "version"))
	if err != nil {
		return types.Package{}, errInvalidPackage(path, err)
	}

	pkg := types.Package{
		Base:    base,
		Version: version,
		Envs:    map[string]types.Env{},
		Apps:    map[string]types.App{},
	}

	if reqsTbl, ok := tbl.RawGetString("reqs").(*lua.LTable); ok {
		var parseErr error
		reqsTbl.ForEach(func(_, v lua.LValue) {
			if parseErr != nil {
				return
			}
			req, err := core.ParseRequirement(v.String())
			if err != nil {
				parseErr = err
				return
			}
			pkg.Reqs = append(pkg.Reqs, req)
		})
		if parseErr != nil {
			return types.Package{}, errInvalidPackage(path, parseErr)
		}
	}

	if envsTbl, ok := tbl.RawGetString("envs").(*lua.LTable); ok {
		envsTbl.ForEach(func(_, v lua.LValue) {
			envTbl, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			env := envFromLuaTable(envTbl)
			pkg.Envs[env.Name] = env
		})
	}

	if appsTbl, ok := tbl.RawGetString("apps").(*lua.LTable); ok {
		appsTbl.ForEach(func(_, v lua.LValue) {
			appTbl, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			app := appFromLuaTable(appTbl)
			pkg.Apps[app.Name] = app
		})
	}

	if tagsTbl, ok := tbl.RawGetString("tags").(*lua.LTable); ok {
		tagsTbl.ForEach(func(_, v lua.LValue) {
			pkg.Tags = append(pkg.Tags, v.String())
		})
	}

	return pkg, nil
}

func envFromLuaTable(tbl *lua.LTable) types.Env {
	env := types.Env{Name: luaTableString(tbl, "name")}
	if evarsTbl, ok := tbl.RawGetString("evars").(*lua.LTable); ok {
		evarsTbl.ForEach(func(_, v lua.LValue) {
			evarTbl, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			env.Evars = append(env.Evars, types.Evar{
				Name:   luaTableString(evarTbl, "name"),
				Value:  luaTableString(evarTbl, "value"),
				Action: types.EvarAction(luaTableStringOr(evarTbl, "action", string(types.ActionSet))),
			})
		})
	}
	return env
}

func appFromLuaTable(tbl *lua.LTable) types.App {
	app := types.App{
		Name:    luaTableString(tbl, "name"),
		Path:    luaTableString(tbl, "path"),
		EnvName: luaTableString(tbl, "env"),
		Cwd:     luaTableString(tbl, "cwd"),
	}
	if argsTbl, ok := tbl.RawGetString("args").(*lua.LTable); ok {
		argsTbl.ForEach(func(_, v lua.LValue) {
			app.Args = append(app.Args, v.String())
		})
	}
	if propsTbl, ok := tbl.RawGetString("properties").(*lua.LTable); ok {
		app.Properties = map[string]string{}
		propsTbl.ForEach(func(k, v lua.LValue) {
			app.Properties[k.String()] = v.String()
		})
	}
	return app
}

func luaTableString(tbl *lua.LTable, key string) string {
	return luaTableStringOr(tbl, key, "")
}

func luaTableStringOr(tbl *lua.LTable, key string, fallback string) string {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return fallback
	}
	return v.String()
}

// registerLuaGlobals installs the builder-type globals spec.md §4.5
// requires a definition file's environment to contain: Package/Env/
// Evar/App constructors, the action enumeration, and the standard
// host facilities needed to express platform-conditional paths.
func registerLuaGlobals(L *lua.LState) {
	L.SetGlobal("Package", L.NewFunction(luaNewPackage))
	L.SetGlobal("Env", L.NewFunction(luaNewEnv))
	L.SetGlobal("Evar", L.NewFunction(luaNewEvar))
	L.SetGlobal("App", L.NewFunction(luaNewApp))

	L.SetGlobal("SET", lua.LString(types.ActionSet))
	L.SetGlobal("APPEND", lua.LString(types.ActionAppend))
	L.SetGlobal("INSERT", lua.LString(types.ActionInsert))

	pathTbl := L.NewTable()
	pathTbl.RawSetString("join", L.NewFunction(luaPathJoin))
	L.SetGlobal("path", pathTbl)

	platformTbl := L.NewTable()
	platformTbl.RawSetString("name", L.NewFunction(luaPlatformName))
	L.SetGlobal("platform", platformTbl)

	osTbl := L.NewTable()
	osTbl.RawSetString("stat", L.NewFunction(luaOSStat))
	L.SetGlobal("os", osTbl)
}

func luaNewPackage(L *lua.LState) int {
	base := L.CheckString(1)
	version := L.OptString(2, "")
	tbl := L.NewTable()
	tbl.RawSetString("base", lua.LString(base))
	tbl.RawSetString("version", lua.LString(version))
	tbl.RawSetString("reqs", L.NewTable())
	tbl.RawSetString("envs", L.NewTable())
	tbl.RawSetString("apps", L.NewTable())
	tbl.RawSetString("tags", L.NewTable())
	tbl.RawSetString("add_req", L.NewFunction(luaPackageAddReq))
	tbl.RawSetString("add_env", L.NewFunction(luaPackageAddEnv))
	tbl.RawSetString("add_app", L.NewFunction(luaPackageAddApp))
	tbl.RawSetString("add_tag", L.NewFunction(luaPackageAddTag))
	L.Push(tbl)
	return 1
}

func luaPackageAddReq(L *lua.LState) int {
	self := L.CheckTable(1)
	req := L.CheckString(2)
	reqs, _ := self.RawGetString("reqs").(*lua.LTable)
	reqs.Append(lua.LString(req))
	L.Push(self)
	return 1
}

func luaPackageAddEnv(L *lua.LState) int {
	self := L.CheckTable(1)
	envTbl := L.CheckTable(2)
	envs, _ := self.RawGetString("envs").(*lua.LTable)
	envs.Append(envTbl)
	L.Push(self)
	return 1
}

func luaPackageAddApp(L *lua.LState) int {
	self := L.CheckTable(1)
	appTbl := L.CheckTable(2)
	apps, _ := self.RawGetString("apps").(*lua.LTable)
	apps.Append(appTbl)
	L.Push(self)
	return 1
}

func luaPackageAddTag(L *lua.LState) int {
	self := L.CheckTable(1)
	tag := L.CheckString(2)
	tags, _ := self.RawGetString("tags").(*lua.LTable)
	tags.Append(lua.LString(tag))
	L.Push(self)
	return 1
}

func luaNewEnv(L *lua.LState) int {
	name := L.CheckString(1)
	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(name))
	tbl.RawSetString("evars", L.NewTable())
	tbl.RawSetString("add", L.NewFunction(luaEnvAdd))
	L.Push(tbl)
	return 1
}

func luaEnvAdd(L *lua.LState) int {
	self := L.CheckTable(1)
	evar := L.CheckTable(2)
	evars, _ := self.RawGetString("evars").(*lua.LTable)
	evars.Append(evar)
	L.Push(self)
	return 1
}

func luaNewEvar(L *lua.LState) int {
	name := L.CheckString(1)
	value := L.CheckString(2)
	action := L.OptString(3, string(types.ActionSet))
	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(name))
	tbl.RawSetString("value", lua.LString(value))
	tbl.RawSetString("action", lua.LString(action))
	L.Push(tbl)
	return 1
}

func luaNewApp(L *lua.LState) int {
	name := L.CheckString(1)
	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(name))
	tbl.RawSetString("path", lua.LString(""))
	tbl.RawSetString("env", lua.LString(""))
	tbl.RawSetString("cwd", lua.LString(""))
	tbl.RawSetString("args", L.NewTable())
	tbl.RawSetString("properties", L.NewTable())
	tbl.RawSetString("set_path", L.NewFunction(luaAppSetPath))
	tbl.RawSetString("set_env", L.NewFunction(luaAppSetEnv))
	tbl.RawSetString("set_cwd", L.NewFunction(luaAppSetCwd))
	tbl.RawSetString("set_args", L.NewFunction(luaAppSetArgs))
	tbl.RawSetString("set_prop", L.NewFunction(luaAppSetProp))
	L.Push(tbl)
	return 1
}

func luaAppSetPath(L *lua.LState) int {
	self := L.CheckTable(1)
	self.RawSetString("path", lua.LString(L.CheckString(2)))
	L.Push(self)
	return 1
}

func luaAppSetEnv(L *lua.LState) int {
	self := L.CheckTable(1)
	self.RawSetString("env", lua.LString(L.CheckString(2)))
	L.Push(self)
	return 1
}

func luaAppSetCwd(L *lua.LState) int {
	self := L.CheckTable(1)
	self.RawSetString("cwd", lua.LString(L.CheckString(2)))
	L.Push(self)
	return 1
}

func luaAppSetArgs(L *lua.LState) int {
	self := L.CheckTable(1)
	args := L.NewTable()
	for i := 2; i <= L.GetTop(); i++ {
		args.Append(lua.LString(L.CheckString(i)))
	}
	self.RawSetString("args", args)
	L.Push(self)
	return 1
}

func luaAppSetProp(L *lua.LState) int {
	self := L.CheckTable(1)
	key := L.CheckString(2)
	value := L.CheckString(3)
	props, _ := self.RawGetString("properties").(*lua.LTable)
	props.RawSetString(key, lua.LString(value))
	L.Push(self)
	return 1
}

func luaPathJoin(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.CheckString(i)
	}
	L.Push(lua.LString(filepath.Join(parts...)))
	return 1
}

func luaPlatformName(L *lua.LState) int {
	L.Push(lua.LString(runtime.GOOS))
	return 1
}

func luaOSStat(L *lua.LState) int {
	path := L.CheckString(1)
	info, err := os.Stat(path)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	tbl := L.NewTable()
	tbl.RawSetString("size", lua.LNumber(info.Size()))
	tbl.RawSetString("is_dir", lua.LBool(info.IsDir()))
	L.Push(tbl)
	return 1
}

var _ ports.LoaderPort = (*LuaLoaderAdapter)(nil)
