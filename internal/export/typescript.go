package export

import (
	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
)

func writeTypeScript(req request) string {
	var out lines
	lit := tsLiterals

	out.add("// MCP-UI Handler - TypeScript")
	out.add("import { createUIResource } from '@mcp-ui/server';")
	out.add()
	out.add("const resource = createUIResource({")
	out.add("  uri: ", singleQuoted(req.uri), ",")
	out.add("  content: {")
	switch p := req.payload.(type) {
	case content.RawHTML:
		out.add("    type: 'rawHtml',")
		out.add("    htmlString: `", tsTemplate(p.HTML), "`,")
	case content.ExternalURL:
		out.add("    type: 'externalUrl',")
		out.add("    iframeUrl: ", singleQuoted(p.URL), ",")
	case content.RemoteScript:
		out.add("    type: 'remoteDom',")
		out.add("    script: `", tsTemplate(p.Script), "`,")
		out.add("    framework: ", singleQuoted(string(p.Framework)), ",")
	}
	out.add("  },")
	out.add("  encoding: ", singleQuoted(string(req.encoding)), ",")

	switch {
	case req.gpt != nil:
		out.add("  adapters: {")
		out.add("    appsSdk: {")
		out.add("      enabled: ", lit.True, ",")
		out.add("      config: { intentHandling: ", singleQuoted(string(req.gpt.IntentHandling)), " },")
		out.add("    },")
		out.add("  },")
		out.add("  metadata: {")
		out.add("    'openai/widgetDescription': ", describe(req.gpt, singleQuoted, lit), ",")
		out.add("    'openai/widgetPrefersBorder': ", lit.boolean(req.gpt.WidgetPrefersBorder), ",")
		if csp := req.gpt.WidgetCSP; csp != nil {
			out.add("    'openai/widgetCSP': {")
			out.add("      connect_domains: ", stringList(csp.ConnectDomains, singleQuoted), ",")
			out.add("      resource_domains: ", stringList(csp.ResourceDomains, singleQuoted), ",")
			out.add("    },")
		}
		out.add("  },")
	case req.apps:
		out.add("  adapters: {")
		out.add("    mcpApps: { enabled: ", lit.True, " },")
		out.add("  },")
	}
	out.add("});")
	out.add()
	out.add("// Return in MCP response")
	out.add("export function handler() {")
	out.add("  return { content: [resource] };")
	out.add("}")
	out.add()

	switch {
	case req.gpt != nil:
		out.add("// Register the widget so ChatGPT can render it:")
		out.add("// server.registerResource('ui-component', resource.resource.uri, {}, async () => ({")
		out.add("//   contents: [resource.resource],")
		out.add("// }));")
		out.add("// Reference it from a tool descriptor:")
		out.add("//   _meta: { 'openai/outputTemplate': resource.resource.uri }")
	case req.apps:
		out.add("// The mcpApps adapter bridges MCP-UI messages (tool, intent, prompt, notify, link)")
		out.add("// to the generic MCP Apps protocol. Hosts that only speak that protocol render the")
		out.add("// resource unchanged; return it from a tool exactly as below.")
		out.add("// server.setRequestHandler(CallToolRequestSchema, async (request) => handler());")
	default:
		out.add("// Usage example:")
		out.add("// server.setRequestHandler(ListToolsRequestSchema, async () => ({")
		out.add("//   tools: [{ name: 'ui-component', description: 'Interactive UI', inputSchema: { type: 'object', properties: {} } }]")
		out.add("// }));")
		out.add("// server.setRequestHandler(CallToolRequestSchema, async (request) => handler());")
	}
	return out.String()
}

// describe renders the optional widget description.
func describe(gpt *adapter.ChatGPTConfig, quote func(string) string, lit literal) string {
	if gpt.WidgetDescription == nil {
		return lit.Null
	}
	return quote(*gpt.WidgetDescription)
}
