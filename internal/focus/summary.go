package focus

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
)

const maxSummaryLen = 100

// Summarize produces a one-line, ~100-char human preview for a node.
// Never returns the literal "undefined" and never panics on a
// malformed parameter shape — it falls back to the humanized type.
func Summarize(n codec.LiteNode) string {
	short := codec.CompressType(n.Type)
	params := n.Parameters

	var s string
	switch {
	case short == "httpRequest":
		s = summarizeHTTPClient(params)
	case short == "code" || short == "function" || short == "functionItem":
		s = summarizeCode(params)
	case short == "if":
		s = summarizeSingleCondition(params)
	case short == "switch":
		s = summarizeRouter(params)
	case strings.Contains(short, "agent"):
		s = summarizeAgent(params)
	case strings.Contains(strings.ToLower(short), "lmchat") || strings.Contains(strings.ToLower(short), "chatmodel"):
		s = summarizeChatModel(params)
	case short == "webhook":
		s = summarizeWebhook(params)
	case short == "set":
		s = summarizeSet(params)
	default:
		s = humanizeType(short)
	}

	if s == "" {
		s = humanizeType(short)
	}
	return truncate(s, maxSummaryLen)
}

func summarizeHTTPClient(p map[string]interface{}) string {
	method := stringOr(p["method"], "GET")
	url := stringOr(p["url"], "")
	if url == "" {
		return "HTTP " + method
	}
	return method + " " + truncate(url, 70)
}

func summarizeCode(p map[string]interface{}) string {
	lang := stringOr(p["language"], "javascript")
	code := firstNonEmptyStr(p["jsCode"], p["pythonCode"], p["code"])
	line := firstMeaningfulLine(code)
	if line == "" {
		return lang + ": comment-only code"
	}
	return lang + ": " + line
}

func firstMeaningfulLine(code string) string {
	for _, raw := range strings.Split(code, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*") {
			continue
		}
		if strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "require(") || strings.Contains(line, "= require(") {
			continue
		}
		return line
	}
	return ""
}

// summarizeSingleCondition handles both the legacy conditions.boolean[0]
// shape (format-1) and the conditions.conditions[0] filter shape (format-2).
func summarizeSingleCondition(p map[string]interface{}) string {
	if cond := firstCondition(p); cond != nil {
		left := stringOr(cond["leftValue"], stringOr(cond["value1"], ""))
		right := stringOr(cond["rightValue"], stringOr(cond["value2"], ""))
		op := operatorName(cond["operator"])
		return fmt.Sprintf("%s %s %s", left, op, right)
	}
	return "if: no condition"
}

func firstCondition(p map[string]interface{}) map[string]interface{} {
	if filter, ok := p["conditions"].(map[string]interface{}); ok {
		if list, ok := filter["conditions"].([]interface{}); ok && len(list) > 0 {
			if c, ok := list[0].(map[string]interface{}); ok {
				return c
			}
		}
	}
	if cond, ok := p["conditions"].(map[string]interface{}); ok {
		if boolList, ok := cond["boolean"].([]interface{}); ok && len(boolList) > 0 {
			if c, ok := boolList[0].(map[string]interface{}); ok {
				return c
			}
		}
	}
	return nil
}

func operatorName(v interface{}) string {
	switch op := v.(type) {
	case string:
		return op
	case map[string]interface{}:
		return stringOr(op["operation"], stringOr(op["type"], "equals"))
	default:
		return "equals"
	}
}

func summarizeRouter(p map[string]interface{}) string {
	var labels []string
	if rules, ok := p["rules"].(map[string]interface{}); ok {
		if values, ok := rules["values"].([]interface{}); ok {
			for _, v := range values {
				m, ok := v.(map[string]interface{})
				if !ok {
					continue
				}
				if out := stringOr(m["outputKey"], ""); out != "" {
					labels = append(labels, out)
				}
			}
		}
	}
	if len(labels) == 0 {
		return "no rules / expression mode"
	}
	if len(labels) > 3 {
		labels = labels[:3]
	}
	return strings.Join(labels, ", ")
}

func summarizeAgent(p map[string]interface{}) string {
	prompt := firstNonEmptyStr(p["systemMessage"], p["text"])
	line := firstNonBlankLine(prompt)
	if line == "" {
		return "agent: no system prompt"
	}
	return line
}

func summarizeChatModel(p map[string]interface{}) string {
	model := firstNonEmptyStr(p["model"], p["modelName"])
	if modelMap, ok := p["model"].(map[string]interface{}); ok {
		model = stringOr(modelMap["value"], "")
	}
	if model == "" {
		return "chat model: default"
	}
	return model
}

func summarizeWebhook(p map[string]interface{}) string {
	method := stringOr(p["httpMethod"], "GET")
	path := stringOr(p["path"], "")
	if path == "" {
		return "webhook: " + method
	}
	return method + " /" + strings.TrimPrefix(path, "/")
}

func summarizeSet(p map[string]interface{}) string {
	names := setFieldNames(p)
	if len(names) == 0 {
		return "set: no fields"
	}
	if len(names) > 5 {
		extra := len(names) - 5
		return strings.Join(names[:5], ", ") + fmt.Sprintf(", +%d more", extra)
	}
	return strings.Join(names, ", ")
}

// setFieldNames recognizes the format-2 values.values[].name shape (and
// the typed values.string/number/boolean[].name lists) and the format-3
// assignments.assignments[].name shape.
func setFieldNames(p map[string]interface{}) []string {
	var names []string
	if values, ok := p["values"].(map[string]interface{}); ok {
		for _, kind := range []string{"values", "string", "number", "boolean"} {
			if list, ok := values[kind].([]interface{}); ok {
				for _, v := range list {
					if m, ok := v.(map[string]interface{}); ok {
						if name := stringOr(m["name"], ""); name != "" {
							names = append(names, name)
						}
					}
				}
			}
		}
	}
	if assignments, ok := p["assignments"].(map[string]interface{}); ok {
		if list, ok := assignments["assignments"].([]interface{}); ok {
			for _, v := range list {
				if m, ok := v.(map[string]interface{}); ok {
					if name := stringOr(m["name"], ""); name != "" {
						names = append(names, name)
					}
				}
			}
		}
	}
	return names
}

// humanizeType camel-cases a short type name into words, e.g.
// "httpRequest" -> "Http Request".
func humanizeType(short string) string {
	short = strings.TrimPrefix(short, "langchain:")
	var b strings.Builder
	for i, r := range short {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func firstNonEmptyStr(vals ...interface{}) string {
	for _, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstNonBlankLine(s string) string {
	for _, raw := range strings.Split(s, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			return line
		}
	}
	return ""
}

// outputHint produces the "what does this emit" best-effort hint for a
// dormant upstream node.
func outputHint(n codec.LiteNode) string {
	short := codec.CompressType(n.Type)
	p := n.Parameters
	switch {
	case short == "set":
		names := setFieldNames(p)
		if len(names) == 0 {
			return ""
		}
		sort.Strings(names)
		return "writes: " + strings.Join(names, ", ")
	case short == "code" || short == "function":
		code := firstNonEmptyStr(p["jsCode"], p["pythonCode"], p["code"])
		if idx := strings.Index(code, "return"); idx >= 0 {
			end := idx
			for end < len(code) && code[end] != '\n' {
				end++
			}
			return "returns: " + truncate(code[idx:end], 80)
		}
		return ""
	case short == "httpRequest":
		url := stringOr(p["url"], "")
		if url == "" || strings.HasPrefix(url, "=") {
			return ""
		}
		return "fetches: " + truncate(url, 70)
	case short == "postgres" || short == "mysql" || short == "mssql":
		query := stringOr(p["query"], "")
		upper := strings.ToUpper(strings.TrimSpace(query))
		if strings.HasPrefix(upper, "SELECT") {
			return "queries: " + truncate(firstNonBlankLine(query), 70)
		}
		return ""
	case short == "spreadsheetFile" || short == "googleSheets":
		sheet := stringOr(p["sheetName"], "")
		rng := stringOr(p["range"], "")
		if sheet == "" && rng == "" {
			return ""
		}
		return "sheet " + sheet + " range " + rng
	case short == "executeWorkflow":
		wf := stringOr(p["workflowId"], "")
		if wf == "" {
			return ""
		}
		return "invokes sub-workflow: " + wf
	default:
		return ""
	}
}
