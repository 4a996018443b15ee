package export

import "github.com/conneroisu/uistudio/internal/content"

func writePython(req request) string {
	var out lines
	lit := pyLiterals

	out.add("# MCP-UI Handler - Python")
	out.add("from mcp_ui_server import create_ui_resource")
	out.add()
	out.add()
	out.add("def handler():")
	out.add(`    """Create and return MCP-UI resource."""`)
	out.add("    resource = create_ui_resource(")
	out.add("        uri=", singleQuoted(req.uri), ",")
	out.add("        content={")
	switch p := req.payload.(type) {
	case content.RawHTML:
		out.add("            'type': 'rawHtml',")
		out.add(`            'htmlString': """`, pyTriple(p.HTML), `""",`)
	case content.ExternalURL:
		out.add("            'type': 'externalUrl',")
		out.add("            'iframeUrl': ", singleQuoted(p.URL), ",")
	case content.RemoteScript:
		out.add("            'type': 'remoteDom',")
		out.add(`            'script': """`, pyTriple(p.Script), `""",`)
		out.add("            'framework': ", singleQuoted(string(p.Framework)), ",")
	}
	out.add("        },")
	out.add("        encoding=", singleQuoted(string(req.encoding)), ",")

	switch {
	case req.gpt != nil:
		out.add("        adapters={")
		out.add("            'appsSdk': {")
		out.add("                'enabled': ", lit.True, ",")
		out.add("                'config': {'intentHandling': ", singleQuoted(string(req.gpt.IntentHandling)), "},")
		out.add("            },")
		out.add("        },")
		out.add("        metadata={")
		out.add("            'openai/widgetDescription': ", describe(req.gpt, singleQuoted, lit), ",")
		out.add("            'openai/widgetPrefersBorder': ", lit.boolean(req.gpt.WidgetPrefersBorder), ",")
		if csp := req.gpt.WidgetCSP; csp != nil {
			out.add("            'openai/widgetCSP': {")
			out.add("                'connect_domains': ", stringList(csp.ConnectDomains, singleQuoted), ",")
			out.add("                'resource_domains': ", stringList(csp.ResourceDomains, singleQuoted), ",")
			out.add("            },")
		}
		out.add("        },")
	case req.apps:
		out.add("        adapters={")
		out.add("            'mcpApps': {'enabled': ", lit.True, "},")
		out.add("        },")
	}
	out.add("    )")
	out.add("    return {'content': [resource]}")
	out.add()
	out.add()

	switch {
	case req.gpt != nil:
		out.add("# Register the widget so ChatGPT can render it:")
		out.add("# @server.list_resources()")
		out.add("# async def list_resources():")
		out.add("#     return [handler()['content'][0]['resource']]")
		out.add("# Reference it from a tool descriptor:")
		out.add("#     _meta={'openai/outputTemplate': resource['resource']['uri']}")
	case req.apps:
		out.add("# The mcpApps adapter bridges MCP-UI messages (tool, intent, prompt, notify, link)")
		out.add("# to the generic MCP Apps protocol. Hosts that only speak that protocol render the")
		out.add("# resource unchanged; return it from a tool exactly as below.")
		out.add("# @server.call_tool()")
		out.add("# async def call_tool(name: str, arguments: dict):")
		out.add("#     return handler()['content']")
	default:
		out.add("# Usage example:")
		out.add("# @server.call_tool()")
		out.add("# async def call_tool(name: str, arguments: dict) -> list[TextContent | ImageContent | EmbeddedResource]:")
		out.add("#     return handler()['content']")
	}
	return out.String()
}
