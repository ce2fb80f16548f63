package prompts

import "sort"

// Schema helpers for the structured-output prompts. The model client
// runs in strict mode, so every object lists all of its properties as
// required and optionality is expressed with null-able types.

func StringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func StringOrNullSchema() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func StringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": StringSchema()}
}

func StringArrayOrNullSchema() map[string]any {
	return map[string]any{"type": []string{"array", "null"}, "items": StringSchema()}
}

func EnumSchema(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func IntRangeSchema(min, max int) map[string]any {
	return map[string]any{"type": "integer", "minimum": min, "maximum": max}
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func strictObject(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	sort.Strings(required)
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func strictObjectOrNull(props map[string]any) map[string]any {
	o := strictObject(props)
	o["type"] = []string{"object", "null"}
	return o
}
