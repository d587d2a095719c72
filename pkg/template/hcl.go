// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package template

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL template files
//
//	template "basic_test" {
//	  version    = "1.0"
//	  header_map = {
//	    "Song Title" = "title"
//	  }
//	  post_process {
//	    id   = 2
//	    args = { headers = ["title"] }
//	  }
//	}
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

type hclFile struct {
	Templates []hclTemplate `hcl:"template,block"`
}

type hclTemplate struct {
	Key       string         `hcl:"key,label"`
	Name      string         `hcl:"name,optional"`
	Version   string         `hcl:"version,optional"`
	HeaderMap hcl.Expression `hcl:"header_map,optional"`
	Steps     []hclStep      `hcl:"post_process,block"`
}

type hclStep struct {
	ID   cty.Value `hcl:"id"`
	Name string    `hcl:"name,optional"`
	Args cty.Value `hcl:"args,optional"`
}

// 📝 Parse parses every template block, keeping block and header order
func (p *HCLParser) Parse(ctx context.Context, path string, data []byte) (*File, error) {
	parser := hclparse.NewParser()
	hclf, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw hclFile
	diags = gohcl.DecodeBody(hclf.Body, &hcl.EvalContext{Variables: map[string]cty.Value{}}, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	f := NewFile(path)
	for _, rt := range raw.Templates {
		t := &Template{
			Name:    rt.Name,
			Version: rt.Version,
		}

		hm, err := hclHeaderMap(rt.HeaderMap)
		if err != nil {
			return nil, errors.Errorf("template %q: %w", rt.Key, err)
		}
		t.HeaderMap = hm

		for i, st := range rt.Steps {
			inv, err := hclInvocation(st)
			if err != nil {
				return nil, errors.Errorf("template %q post_process[%d]: %w", rt.Key, i, err)
			}
			t.PostProcesses = append(t.PostProcesses, inv)
		}

		f.Add(rt.Key, t)
	}

	return f, nil
}

// hclHeaderMap walks the object constructor so source order survives
func hclHeaderMap(expr hcl.Expression) (HeaderMap, error) {
	out := HeaderMap{}
	if expr == nil {
		return out, nil
	}
	if v, diags := expr.Value(nil); !diags.HasErrors() && v.IsNull() {
		return out, nil
	}

	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, errors.Errorf("header_map: %s", diags.Error())
	}

	for _, kv := range pairs {
		k, diags := kv.Key.Value(nil)
		if diags.HasErrors() {
			return nil, errors.Errorf("header_map key: %s", diags.Error())
		}
		v, diags := kv.Value.Value(nil)
		if diags.HasErrors() {
			return nil, errors.Errorf("header_map value: %s", diags.Error())
		}
		if k.Type() != cty.String || v.Type() != cty.String || k.IsNull() || v.IsNull() {
			return nil, errors.Errorf("header_map: keys and values must be strings")
		}
		out.put(k.AsString(), v.AsString())
	}

	return out, nil
}

func hclInvocation(st hclStep) (Invocation, error) {
	inv := Invocation{Name: st.Name}

	switch {
	case st.ID.IsNull() || !st.ID.IsKnown():
		return inv, errors.Errorf("id is required")
	case st.ID.Type() == cty.String:
		inv.ID = ID(st.ID.AsString())
	case st.ID.Type() == cty.Number:
		inv.ID = ID(st.ID.AsBigFloat().Text('f', -1))
	default:
		return inv, errors.Errorf("id must be a number or string, got %s", st.ID.Type().FriendlyName())
	}

	if st.Args.IsNull() {
		return inv, nil
	}

	data, err := ctyjson.SimpleJSONValue{Value: st.Args}.MarshalJSON()
	if err != nil {
		return inv, errors.Errorf("encoding args: %w", err)
	}
	if err := json.Unmarshal(data, &inv.Args); err != nil {
		return inv, errors.Errorf("args must be an object: %w", err)
	}

	return inv, nil
}
