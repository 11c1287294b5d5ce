//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/jun/drivepicker/internal/jsgateway"
	"github.com/jun/drivepicker/internal/logging"
	"github.com/jun/drivepicker/internal/picker"
	"github.com/jun/drivepicker/internal/schema"
)

func main() {
	logger := logging.New("development", "info").WithPrefix("picker")
	gateway := jsgateway.New()

	// format: createGooglePicker(clientId, developerKey, appId, config?) -> object | Error
	createFunc := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		creds := jsgateway.StringArgs(jsgateway.ArgsOf(args), 3)

		var cfg *schema.Config
		if len(args) > 3 && args[3].Type() == js.TypeObject {
			raw := js.Global().Get("JSON").Call("stringify", args[3]).String()
			decoded, err := jsgateway.DecodeConfig(raw)
			if err != nil {
				return jsError(err.Error())
			}
			cfg = decoded
			if cb := args[3].Get("pickerCallback"); cb.Type() == js.TypeFunction {
				if cfg == nil {
					cfg = &schema.Config{}
				}
				cfg.PickerCallback = func(res schema.SelectionResult) {
					cb.Invoke(toJS(res))
				}
			}
		}

		loader, err := picker.New(creds[0], creds[1], creds[2], cfg, gateway, picker.WithLogger(logger))
		if err != nil {
			return jsError(err.Error())
		}
		return loaderObject(loader)
	})

	js.Global().Set("createGooglePicker", createFunc)

	logger.Info("drivepicker wasm initialized")

	// Prevent the function from returning, which would exit the Wasm module
	select {}
}

func loaderObject(loader *picker.Loader) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("showPicker", js.FuncOf(func(js.Value, []js.Value) interface{} {
		if err := loader.ShowPicker(); err != nil {
			return jsError(err.Error())
		}
		return nil
	}))
	obj.Set("getViewId", js.FuncOf(func(js.Value, []js.Value) interface{} {
		return loader.ViewID().String()
	}))
	obj.Set("getScopes", js.FuncOf(func(js.Value, []js.Value) interface{} {
		scopes := loader.Scopes()
		out := make([]interface{}, len(scopes))
		for i, s := range scopes {
			out[i] = s
		}
		return out
	}))
	obj.Set("getAccessToken", js.FuncOf(func(js.Value, []js.Value) interface{} {
		return loader.AccessToken()
	}))
	obj.Set("isReady", js.FuncOf(func(js.Value, []js.Value) interface{} {
		return loader.ClientLibraryReady() && loader.PickerLibraryReady()
	}))
	return obj
}

func toJS(v any) js.Value {
	b, err := json.Marshal(v)
	if err != nil {
		return js.Null()
	}
	return js.Global().Get("JSON").Call("parse", string(b))
}

func jsError(msg string) js.Value {
	return js.Global().Get("Error").New(msg)
}
