package schema

import (
	"strings"
)

// Render produces SDL from the Schema.
// Deterministic ordering: type names sorted lexicographically, members in
// declaration order.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	renderSchemaDefinition(&b, s)
	for _, name := range s.TypeNames() {
		if IsBuiltinScalar(name) {
			continue
		}
		RenderType(&b, s.Types[name])
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderType writes the SDL definition of a single type.
func RenderType(b *strings.Builder, typ *Type) {
	switch typ.Kind {
	case TypeKindScalar:
		renderScalar(b, typ)
	case TypeKindEnum:
		renderEnum(b, typ)
	case TypeKindInputObject:
		renderFielded(b, "input", typ)
	case TypeKindObject:
		renderFielded(b, "type", typ)
	case TypeKindInterface:
		renderFielded(b, "interface", typ)
	case TypeKindUnion:
		renderUnion(b, typ)
	}
}

// ----- render helpers -----

func renderSchemaDefinition(b *strings.Builder, s *Schema) {
	// The conventional names need no schema block.
	if (s.QueryType == "" || s.QueryType == "Query") &&
		(s.MutationType == "" || s.MutationType == "Mutation") &&
		(s.SubscriptionType == "" || s.SubscriptionType == "Subscription") {
		return
	}
	b.WriteString("schema {\n")
	for _, op := range [][2]string{
		{"query", s.QueryType},
		{"mutation", s.MutationType},
		{"subscription", s.SubscriptionType},
	} {
		if op[1] == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(op[0])
		b.WriteString(": ")
		b.WriteString(op[1])
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderDescription(b *strings.Builder, desc, indent string) {
	if desc == "" {
		return
	}
	b.WriteString(indent)
	b.WriteString("\"\"\"\n")
	// Escape quotes in description
	escaped := strings.ReplaceAll(desc, "\"", "\\\"")
	for _, line := range strings.Split(escaped, "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(indent)
	b.WriteString("\"\"\"\n")
}

func renderDeprecation(b *strings.Builder, deprecated bool, reason string) {
	if !deprecated {
		return
	}
	b.WriteString(" @deprecated")
	if reason != "" {
		b.WriteString("(reason: \"")
		b.WriteString(strings.ReplaceAll(reason, "\"", "\\\""))
		b.WriteString("\")")
	}
}

func renderScalar(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description, "")
	b.WriteString("scalar ")
	b.WriteString(typ.Name)
	b.WriteString("\n\n")
}

func renderEnum(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description, "")
	b.WriteString("enum ")
	b.WriteString(typ.Name)
	b.WriteString(" {\n")
	for _, val := range typ.EnumValues {
		renderDescription(b, val.Description, "  ")
		b.WriteString("  ")
		b.WriteString(val.Name)
		renderDeprecation(b, val.IsDeprecated, val.DeprecationReason)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderFielded(b *strings.Builder, keyword string, typ *Type) {
	renderDescription(b, typ.Description, "")
	b.WriteString(keyword)
	b.WriteString(" ")
	b.WriteString(typ.Name)
	if len(typ.Interfaces) > 0 {
		b.WriteString(" implements ")
		b.WriteString(strings.Join(typ.Interfaces, " & "))
	}
	if len(typ.Fields) == 0 {
		b.WriteString("\n\n")
		return
	}
	b.WriteString(" {\n")
	for _, field := range typ.Fields {
		renderField(b, field)
	}
	b.WriteString("}\n\n")
}

func renderUnion(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description, "")
	b.WriteString("union ")
	b.WriteString(typ.Name)
	if len(typ.PossibleTypes) > 0 {
		b.WriteString(" = ")
		b.WriteString(strings.Join(typ.PossibleTypes, " | "))
	}
	b.WriteString("\n\n")
}

func renderField(b *strings.Builder, field *Field) {
	renderDescription(b, field.Description, "  ")
	b.WriteString("  ")
	b.WriteString(field.Name)
	if len(field.Args) > 0 {
		b.WriteString("(")
		for i, arg := range field.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			renderInputValue(b, arg)
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(field.Type.String())
	if field.DefaultValue != nil {
		b.WriteString(" = ")
		b.WriteString(*field.DefaultValue)
	}
	renderDeprecation(b, field.IsDeprecated, field.DeprecationReason)
	b.WriteString("\n")
}

func renderInputValue(b *strings.Builder, arg *Field) {
	b.WriteString(arg.Name)
	b.WriteString(": ")
	b.WriteString(arg.Type.String())
	if arg.DefaultValue != nil {
		b.WriteString(" = ")
		b.WriteString(*arg.DefaultValue)
	}
}
