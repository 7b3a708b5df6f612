// Package anim drives transform animation from tengo scripts. Each
// animated node owns a compiled script whose update function runs once
// per frame and writes the node's local placement through a small engine
// API. Script failures are logged and the node skipped; they never stop
// the frame.
package anim

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/scenekit/core"
	"github.com/milk9111/scenekit/maths"
)

const dispatchScript = `
update(__engine, __t, __dt)
`

// Runtime runs the animation scripts attached to a transform manager's
// nodes.
type Runtime struct {
	tm      *core.TransformManager
	scripts []*nodeScript
	elapsed float64
}

type nodeScript struct {
	node     string
	handle   core.Handle
	compiled *tengo.Compiled

	// authored placement; script writes override individual channels
	position maths.Vec3
	rotation maths.Vec3 // euler degrees
	scale    maths.Vec3

	initial maths.Vec3
	touched bool
}

func NewRuntime(tm *core.TransformManager) *Runtime {
	return &Runtime{tm: tm}
}

// Attach compiles src and binds it to the transform. The authored
// position, rotation (euler degrees), and scale seed the channels a
// script does not set.
func (rt *Runtime) Attach(node string, handle core.Handle, src []byte, position, rotation, scale maths.Vec3) error {
	script := tengo.NewScript(append(append([]byte{}, src...), dispatchScript...))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__t", 0.0)
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("anim: compile script for node %q: %w", node, err)
	}

	rt.scripts = append(rt.scripts, &nodeScript{
		node:     node,
		handle:   handle,
		compiled: compiled,
		position: position,
		rotation: rotation,
		scale:    scale,
		initial:  position,
	})
	return nil
}

// Len returns the number of attached scripts.
func (rt *Runtime) Len() int {
	return len(rt.scripts)
}

// Step advances every script by dt seconds and writes the resulting
// local matrices. Changes become visible after the manager's next Update.
func (rt *Runtime) Step(dt float64) {
	rt.elapsed += dt
	for _, ns := range rt.scripts {
		if rt.tm.Local(ns.handle) == nil {
			// node destroyed since attach
			continue
		}

		ns.touched = false
		engine := buildEngine(ns)
		if err := ns.compiled.Set("__engine", engine); err != nil {
			log.Printf("anim: node=%s set engine: %v", ns.node, err)
			continue
		}
		if err := ns.compiled.Set("__t", rt.elapsed); err != nil {
			log.Printf("anim: node=%s set time: %v", ns.node, err)
			continue
		}
		if err := ns.compiled.Set("__dt", dt); err != nil {
			log.Printf("anim: node=%s set dt: %v", ns.node, err)
			continue
		}
		if err := ns.compiled.Run(); err != nil {
			log.Printf("anim: node=%s script error: %v", ns.node, err)
			continue
		}

		if !ns.touched {
			continue
		}
		local := maths.Compose(
			ns.position,
			ns.scale,
			maths.EulerDegrees(ns.rotation.X, ns.rotation.Y, ns.rotation.Z),
		)
		rt.tm.SetLocal(ns.handle, local)
	}
}

func buildEngine(ns *nodeScript) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vec3Args(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		ns.position = v
		ns.touched = true
		return tengo.TrueValue, nil
	}}

	values["set_rotation"] = &tengo.UserFunction{Name: "set_rotation", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vec3Args(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		ns.rotation = v
		ns.touched = true
		return tengo.TrueValue, nil
	}}

	values["set_scale"] = &tengo.UserFunction{Name: "set_scale", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vec3Args(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		ns.scale = v
		ns.touched = true
		return tengo.TrueValue, nil
	}}

	values["initial_position"] = &tengo.UserFunction{Name: "initial_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: float64(ns.initial.X)},
			&tengo.Float{Value: float64(ns.initial.Y)},
			&tengo.Float{Value: float64(ns.initial.Z)},
		}}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vec3Args(args []tengo.Object) (maths.Vec3, bool) {
	if len(args) < 3 {
		return maths.Vec3{}, false
	}
	x, ok := tengo.ToFloat64(args[0])
	if !ok {
		return maths.Vec3{}, false
	}
	y, ok := tengo.ToFloat64(args[1])
	if !ok {
		return maths.Vec3{}, false
	}
	z, ok := tengo.ToFloat64(args[2])
	if !ok {
		return maths.Vec3{}, false
	}
	return maths.V3(float32(x), float32(y), float32(z)), true
}
