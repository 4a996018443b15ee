package export

import (
	"strings"

	"github.com/conneroisu/uistudio/internal/content"
)

var rubyTypeSymbols = map[content.Kind]string{
	content.KindRawHTML:     ":raw_html",
	content.KindExternalURL: ":external_url",
	content.KindRemoteDOM:   ":remote_dom",
}

func writeRuby(req request) string {
	var out lines
	lit := rubyLiterals

	out.add("# MCP-UI Handler - Ruby")
	out.add("require 'mcp_ui_server'")
	out.add()
	out.add("def handler")
	out.add("  resource = McpUiServer.create_ui_resource(")
	out.add("    uri: ", rubySingle(req.uri), ",")
	out.add("    content: {")
	out.add("      type: ", rubyTypeSymbols[req.payload.Kind()], ",")
	switch p := req.payload.(type) {
	case content.RawHTML:
		heredoc(&out, "      htmlString: ", "HTML", p.HTML, ",")
	case content.ExternalURL:
		out.add("      iframeUrl: ", rubySingle(p.URL))
	case content.RemoteScript:
		heredoc(&out, "      script: ", "SCRIPT", p.Script, ",")
		out.add("      framework: :", string(p.Framework))
	}
	out.add("    },")

	args := []string{"    encoding: :" + string(req.encoding)}
	switch {
	case req.gpt != nil:
		block := []string{
			"    adapters: {",
			"      appsSdk: {",
			"        enabled: " + lit.True + ",",
			"        config: { intentHandling: " + rubySingle(string(req.gpt.IntentHandling)) + " }",
			"      }",
			"    },",
			"    metadata: {",
			"      'openai/widgetDescription' => " + describe(req.gpt, rubySingle, lit) + ",",
		}
		if csp := req.gpt.WidgetCSP; csp != nil {
			block = append(block,
				"      'openai/widgetPrefersBorder' => "+lit.boolean(req.gpt.WidgetPrefersBorder)+",",
				"      'openai/widgetCSP' => {",
				"        connect_domains: "+stringList(csp.ConnectDomains, rubySingle)+",",
				"        resource_domains: "+stringList(csp.ResourceDomains, rubySingle),
				"      }",
			)
		} else {
			block = append(block, "      'openai/widgetPrefersBorder' => "+lit.boolean(req.gpt.WidgetPrefersBorder))
		}
		block = append(block, "    }")
		args = append(args, strings.Join(block, "\n"))
	case req.apps:
		args = append(args, "    adapters: {\n      mcpApps: { enabled: "+lit.True+" }\n    }")
	}
	out.add(strings.Join(args, ",\n"))
	out.add("  )")
	out.add()
	out.add("  { content: [resource] }")
	out.add("end")
	out.add()

	switch {
	case req.gpt != nil:
		out.add("# Register the widget so ChatGPT can render it:")
		out.add("# server.resource(resource[:resource][:uri]) { handler[:content].first[:resource] }")
		out.add("# Reference it from a tool descriptor:")
		out.add("#   _meta: { 'openai/outputTemplate' => resource[:resource][:uri] }")
	case req.apps:
		out.add("# The mcpApps adapter bridges MCP-UI messages (tool, intent, prompt, notify, link)")
		out.add("# to the generic MCP Apps protocol. Hosts that only speak that protocol render the")
		out.add("# resource unchanged; return it from a tool exactly as below.")
		out.add("# server.tool('ui-component', 'Interactive UI') do")
		out.add("#   handler[:content]")
		out.add("# end")
	default:
		out.add("# Usage example:")
		out.add("# server.tool('ui-component', 'Interactive UI') do")
		out.add("#   handler[:content]")
		out.add("# end")
	}
	return out.String()
}

// heredoc emits a single-quoted heredoc, which Ruby never interpolates or
// unescapes. The body is written verbatim and the newline the heredoc adds
// after it is removed again.
func heredoc(out *lines, prefix, base, body, suffix string) {
	tag := heredocTag(base, body)
	out.add(prefix, "<<-'", tag, "'.delete_suffix(\"\\n\")", suffix)
	out.add(body)
	out.add("      ", tag)
}
