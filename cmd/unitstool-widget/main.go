//go:build js && wasm

// Command unitstool-widget is the in-page calculator, compiled to WebAssembly
// by `unitstool widget`, which runs
//
//	GOOS=js GOARCH=wasm go build -o public/widget.wasm ./cmd/unitstool-widget
//
// and installs the matching wasm_exec.js.
//
// It wires the #search filter and renders the calculator form for the tool
// named by #tool-app's data-tool attribute.
package main

import (
	"fmt"
	"html"
	"strings"
	"syscall/js"
	"time"

	"github.com/mmonline245-max/unitstool/internal/calculator"
)

const toolListURL = "/data/tools.json"

var document = js.Global().Get("document")

func main() {
	wireSearch()

	if app := document.Call("getElementById", "tool-app"); app.Truthy() {
		go func() {
			tools, err := fetchTools()
			if err != nil {
				js.Global().Get("console").Call("error", "unitstool widget: "+err.Error())
				return
			}
			mountCalculator(app, tools)
		}()
	}

	// Keep the callbacks alive.
	select {}
}

// wireSearch hides .tool-card elements whose text does not contain the query.
func wireSearch() {
	search := document.Call("getElementById", "search")
	if !search.Truthy() {
		return
	}
	search.Call("addEventListener", "input", js.FuncOf(func(this js.Value, args []js.Value) any {
		q := args[0].Get("target").Get("value").String()
		cards := document.Call("querySelectorAll", ".tool-card")
		for i := 0; i < cards.Length(); i++ {
			card := cards.Index(i)
			display := "none"
			if calculator.Matches(card.Get("textContent").String(), q) {
				display = "block"
			}
			card.Get("style").Set("display", display)
		}
		return nil
	}))
}

// fetchTools blocks the calling goroutine on the browser fetch promise.
func fetchTools() ([]calculator.Tool, error) {
	text, err := await(js.Global().Call("fetch", toolListURL).Call("then", js.FuncOf(func(this js.Value, args []js.Value) any {
		resp := args[0]
		if !resp.Get("ok").Bool() {
			return js.Global().Get("Promise").Call("reject", fmt.Sprintf("GET %s: %d", toolListURL, resp.Get("status").Int()))
		}
		return resp.Call("text")
	})))
	if err != nil {
		return nil, err
	}
	return calculator.DecodeTools([]byte(text.String()))
}

func await(promise js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	ch := make(chan result, 1)
	var onOK, onErr js.Func
	onOK = js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- result{v: args[0]}
		return nil
	})
	onErr = js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- result{err: fmt.Errorf("%s", args[0].Call("toString").String())}
		return nil
	})
	promise.Call("then", onOK, onErr)
	r := <-ch
	onOK.Release()
	onErr.Release()
	return r.v, r.err
}

func mountCalculator(app js.Value, tools []calculator.Tool) {
	tool, err := calculator.SelectTool(tools, app.Get("dataset").Get("tool").String())
	if err != nil {
		app.Set("innerHTML", `<p class="error">Tool not found.</p>`)
		return
	}

	form := calculator.FormFor(tool.Kind())
	var b strings.Builder
	if form.Intro != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(form.Intro))
	}
	for _, f := range form.Fields {
		fmt.Fprintf(&b, `<div class="row"><label for="%[1]s">%[2]s</label><input id="%[1]s" type="%[3]s" /></div>`,
			f.ID, html.EscapeString(f.Label), f.Input)
	}
	fmt.Fprintf(&b, `<button id="calc">%s</button><div id="out"></div>`, html.EscapeString(form.Button))
	app.Set("innerHTML", b.String())

	document.Call("getElementById", "calc").Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
		in := calculator.Inputs{}
		for _, f := range form.Fields {
			in[f.ID] = document.Call("getElementById", f.ID).Get("value").String()
		}
		out := document.Call("getElementById", "out")
		result, err := calculator.Compute(form.Kind, in, time.Now())
		if err != nil {
			out.Set("innerText", "Error: "+err.Error())
			return nil
		}
		out.Set("innerHTML", "<strong>"+html.EscapeString(result)+"</strong>")
		return nil
	}))
}
