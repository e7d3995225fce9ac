package template

import "github.com/uniforge/uniforge/internal/shared/types"

// kindProps declares the prop surface each built-in template supports.
// Kept in sync with the resolver's kind schemas.
var kindProps = map[types.Kind][]string{
	"button":       {"variant", "size", "label", "disabled", "icon"},
	"input":        {"type", "placeholder", "label", "size", "required"},
	"card":         {"title", "elevation", "padding"},
	"select":       {"label", "options", "size"},
	"checkbox":     {"label", "checked", "size"},
	"modal":        {"title", "size", "dismissible"},
	"table":        {"caption", "striped", "size"},
	"text":         {"content", "variant"},
	"badge":        {"content", "variant"},
	"payment-form": {"label", "provider", "currency", "size"},
}

// Props the native mobile toolkits have no equivalent for; requesting them
// surfaces an UnsupportedProp advisory instead of a silent drop.
var nativeUnsupported = map[string]bool{
	"icon":    true,
	"striped": true,
}

const reactBody = `import React from "react";

export function {{.Name}}(props) {
  const { {{join .PropNames ", "}} } = props;
  return <div className="uf-{{.Kind}}"{{range $k, $v := .Props}} data-{{$k}}="{{$v}}"{{end}} />;
}
`

const vueBody = `<template>
  <div class="uf-{{.Kind}}"{{range $k, $v := .Props}} data-{{$k}}="{{$v}}"{{end}}></div>
</template>

<script setup>
// {{.Name}}
</script>
`

const angularBody = `import { Component } from "@angular/core";

@Component({
  selector: "uf-{{.Kind}}",
  template: ` + "`" + `<div class="uf-{{.Kind}}"{{range $k, $v := .Props}} data-{{$k}}="{{$v}}"{{end}}></div>` + "`" + `,
})
export class {{.Name}}Component {}
`

const svelteBody = `<script>
  // {{.Name}}
</script>

<div class="uf-{{.Kind}}"{{range $k, $v := .Props}} data-{{$k}}="{{$v}}"{{end}}></div>
`

const solidBody = `export function {{.Name}}(props) {
  return <div class="uf-{{.Kind}}"{{range $k, $v := .Props}} data-{{$k}}="{{$v}}"{{end}} />;
}
`

const flutterBody = `import 'package:flutter/material.dart';

class {{.Name}} extends StatelessWidget {
  const {{.Name}}({super.key});

  @override
  Widget build(BuildContext context) {
    return Semantics(
      label: '{{label .Props}}',
      child: Container(), // {{.Kind}}{{range $k, $v := .Props}} {{$k}}={{$v}}{{end}}
    );
  }
}
`

const swiftUIBody = `import SwiftUI

struct {{.Name}}: View {
    var body: some View {
        // {{.Kind}}{{range $k, $v := .Props}} {{$k}}={{$v}}{{end}}
        Text("{{label .Props}}")
            .accessibilityLabel("{{label .Props}}")
    }
}
`

// DefaultPacks returns the built-in template packs for all seven supported
// platforms, one definition per component kind.
func DefaultPacks() []Pack {
	bodies := map[types.Platform]string{
		types.PlatformReact:   reactBody,
		types.PlatformVue:     vueBody,
		types.PlatformAngular: angularBody,
		types.PlatformSvelte:  svelteBody,
		types.PlatformSolid:   solidBody,
		types.PlatformFlutter: flutterBody,
		types.PlatformSwiftUI: swiftUIBody,
	}

	native := map[types.Platform]bool{
		types.PlatformFlutter: true,
		types.PlatformSwiftUI: true,
	}

	packs := make([]Pack, 0, len(bodies))
	for platform, body := range bodies {
		pack := Pack{
			Platform: platform,
			Version:  "1.0.0",
		}
		for kind, props := range kindProps {
			supported := props
			if native[platform] {
				supported = make([]string, 0, len(props))
				for _, p := range props {
					if !nativeUnsupported[p] {
						supported = append(supported, p)
					}
				}
			}
			pack.Templates = append(pack.Templates, PackTemplate{
				Kind:           kind,
				SupportedProps: supported,
				Body:           body,
			})
		}
		packs = append(packs, pack)
	}
	return packs
}
