//go:build js && wasm

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/engine"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/store"
)

// storageKey is the localStorage entry holding the serialized plan.
const storageKey = "kitchen-planner-storage"

var eng *engine.Engine

// localStorage persists the plan in the browser.
type localStorage struct {
	key string
}

func (l localStorage) Load(context.Context) ([]byte, error) {
	v := js.Global().Get("localStorage").Call("getItem", l.key)
	if v.IsNull() || v.IsUndefined() {
		return nil, nil
	}
	return []byte(v.String()), nil
}

func (l localStorage) Save(_ context.Context, data []byte) error {
	js.Global().Get("localStorage").Call("setItem", l.key, string(data))
	return nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))

	s, err := store.Open(context.Background(), store.WithPersister(localStorage{key: storageKey}))
	if err != nil {
		slog.Error("hydrate planner store", "error", err)
		s = store.New(store.WithPersister(localStorage{key: storageKey}))
	}
	eng = engine.NewEngine(s)

	plannerEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	plannerEngine.Set("resize", js.FuncOf(resize))
	plannerEngine.Set("pointerDown", js.FuncOf(pointerDown))
	plannerEngine.Set("pointerMove", js.FuncOf(pointerMove))
	plannerEngine.Set("pointerUp", js.FuncOf(pointerUp))
	plannerEngine.Set("pointerLeave", js.FuncOf(pointerLeave))
	plannerEngine.Set("keyDown", js.FuncOf(keyDown))
	plannerEngine.Set("drop", js.FuncOf(drop))
	plannerEngine.Set("confirmWalls", js.FuncOf(confirmWalls))
	plannerEngine.Set("cancelWalls", js.FuncOf(cancelWalls))
	plannerEngine.Set("undoWallSegment", js.FuncOf(undoWallSegment))
	plannerEngine.Set("undo", js.FuncOf(undo))
	plannerEngine.Set("redo", js.FuncOf(redo))
	plannerEngine.Set("setTool", js.FuncOf(setTool))
	plannerEngine.Set("setZoom", js.FuncOf(setZoom))
	plannerEngine.Set("zoomBy", js.FuncOf(zoomBy))
	plannerEngine.Set("setViewMode", js.FuncOf(setViewMode))
	plannerEngine.Set("toggleGrid", js.FuncOf(toggleGrid))
	plannerEngine.Set("toggleDimensions", js.FuncOf(toggleDimensions))
	plannerEngine.Set("rescaleRoom", js.FuncOf(rescaleRoom))
	plannerEngine.Set("setRoomShape", js.FuncOf(setRoomShape))
	plannerEngine.Set("applyPreferredLayout", js.FuncOf(applyPreferredLayout))
	plannerEngine.Set("importJSON", js.FuncOf(importJSON))

	// --- Queries (frontend ← backend) ---
	plannerEngine.Set("exportJSON", js.FuncOf(exportJSON))
	plannerEngine.Set("exportPNG", js.FuncOf(exportPNG))
	plannerEngine.Set("render", js.FuncOf(render))
	plannerEngine.Set("getState", js.FuncOf(getState))
	plannerEngine.Set("getCursor", js.FuncOf(getCursor))

	js.Global().Set("plannerEngine", plannerEngine)
	js.Global().Set("plannerWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.Resize(args[0].Float(), args[1].Float())
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerDown(args[0].Float(), args[1].Float())
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerMove(args[0].Float(), args[1].Float())
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	eng.PointerUp()
	return nil
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	eng.PointerLeave()
	return nil
}

// keyDown takes the JSON of a KeyboardEvent subset and reports whether the
// editor consumed it, so the caller can preventDefault.
func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	var k engine.Key
	if err := json.Unmarshal([]byte(args[0].String()), &k); err != nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.KeyDown(k))
}

func drop(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorResult("missing item type or position")
	}
	id, ok := eng.Drop(args[0].String(), args[1].Float(), args[2].Float())
	if !ok {
		return errorResult("drop ignored")
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "id": id})
}

func confirmWalls(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ConfirmWalls())
}

func cancelWalls(this js.Value, args []js.Value) interface{} {
	eng.CancelWalls()
	return nil
}

func undoWallSegment(this js.Value, args []js.Value) interface{} {
	eng.UndoWallSegment()
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetTool(args[0].String())
	return nil
}

func setZoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetZoom(args[0].Float())
	return nil
}

func zoomBy(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.ZoomBy(args[0].Int())
	return nil
}

func setViewMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetViewMode(args[0].String())
	return nil
}

func toggleGrid(this js.Value, args []js.Value) interface{} {
	eng.ToggleGrid()
	return nil
}

func toggleDimensions(this js.Value, args []js.Value) interface{} {
	eng.ToggleDimensions()
	return nil
}

func rescaleRoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.RescaleRoom(args[0].Float(), args[1].Float()))
}

func setRoomShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	keepItems := len(args) > 1 && args[1].Truthy()
	eng.SetRoomShape(args[0].String(), keepItems)
	return nil
}

func applyPreferredLayout(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.ApplyPreferredLayout(args[0].String()))
}

func importJSON(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing document JSON")
	}
	if err := eng.ImportJSON(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

// --- Query Handlers ---

func exportJSON(this js.Value, args []js.Value) interface{} {
	doc, err := eng.ExportJSON()
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(doc)
}

func exportPNG(this js.Value, args []js.Value) interface{} {
	data, filename, err := eng.ExportPNG()
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(map[string]interface{}{
		"data":     base64.StdEncoding.EncodeToString(data),
		"filename": filename,
	})
}

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetState())
}

func getCursor(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Cursor())
}
