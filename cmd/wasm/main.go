//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/canvasdraw/editor/backend-go/internal/editor"
	"github.com/canvasdraw/editor/backend-go/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(editor.DefaultConfig)

	// Create the editor API object
	canvasEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	canvasEditor.Set("loadDocument", js.FuncOf(loadDocument))
	canvasEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	canvasEditor.Set("pushEvents", js.FuncOf(pushEvents))
	canvasEditor.Set("frame", js.FuncOf(frame))
	canvasEditor.Set("command", js.FuncOf(command))

	// --- Queries (frontend ← backend) ---
	canvasEditor.Set("hitTest", js.FuncOf(hitTest))
	canvasEditor.Set("drawCode", js.FuncOf(drawCode))
	canvasEditor.Set("getDocument", js.FuncOf(getDocument))
	canvasEditor.Set("getSelection", js.FuncOf(getSelection))
	canvasEditor.Set("getOutline", js.FuncOf(getOutline))

	// Register on global scope
	js.Global().Set("canvasEditor", canvasEditor)

	// Signal that WASM is ready
	js.Global().Set("canvasEditorReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document JSON"})
	}

	if err := eng.LoadDocument(args[0].String()); err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}

	return js.ValueOf(map[string]any{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	name := "Sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}

	eng.LoadSampleDocument(name)
	return js.ValueOf(map[string]any{"ok": true})
}

func pushEvents(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing events JSON"})
	}

	if err := eng.PushEvents(args[0].String()); err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}

	return js.ValueOf(map[string]any{"ok": true})
}

func frame(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Frame())
}

func command(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(`{"error":"missing command JSON"}`)
	}
	return js.ValueOf(eng.Command(args[0].String()))
}

// --- Query Handlers ---

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func drawCode(this js.Value, args []js.Value) any {
	name := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}

	code, err := eng.DrawCode(name)
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(code)
}

func getDocument(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetDocument())
}

func getSelection(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelection())
}

func getOutline(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetOutline())
}
