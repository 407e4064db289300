package introspection

import (
	"sort"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	schema "github.com/topolanekmartin/apollo-cache-manager/internal/schema"
)

const defaultDeprecationReason = "No longer supported"

// FromSDL builds a schema from SDL text, as a server would expose it
// through introspection.
func FromSDL(name, sdl string) (*schema.Schema, error) {
	doc, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return nil, malformed("invalid SDL", err)
	}

	s := schema.NewSchema()
	if doc.Query != nil {
		s.QueryType = doc.Query.Name
	}
	if doc.Mutation != nil {
		s.MutationType = doc.Mutation.Name
	}
	if doc.Subscription != nil {
		s.SubscriptionType = doc.Subscription.Name
	}

	names := make([]string, 0, len(doc.Types))
	for name := range doc.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.AddType(convertDefinition(doc, doc.Types[name]))
	}
	return s, nil
}

func convertDefinition(doc *ast.Schema, def *ast.Definition) *schema.Type {
	if schema.IsReflectionName(def.Name) {
		return nil
	}
	kind, ok := schema.ParseTypeKind(string(def.Kind))
	if !ok {
		return nil
	}
	t := schema.NewType(def.Name, kind, def.Description)

	switch kind {
	case schema.TypeKindScalar:
	case schema.TypeKindEnum:
		for _, ev := range def.EnumValues {
			v := schema.NewEnumValue(ev.Name, ev.Description)
			if reason, ok := deprecation(ev.Directives); ok {
				v.Deprecate(reason)
			}
			t.AddEnumValue(v)
		}
	case schema.TypeKindObject, schema.TypeKindInterface, schema.TypeKindInputObject:
		for _, fd := range def.Fields {
			if schema.IsReflectionName(fd.Name) {
				continue
			}
			t.AddField(convertFieldDefinition(doc, fd))
		}
		if kind == schema.TypeKindObject {
			for _, iface := range def.Interfaces {
				t.AddInterface(iface)
			}
		}
		if kind == schema.TypeKindInterface {
			for _, pt := range doc.GetPossibleTypes(def) {
				t.AddPossibleType(pt.Name)
			}
		}
	case schema.TypeKindUnion:
		for _, member := range def.Types {
			t.AddPossibleType(member)
		}
	}
	return t.Finalize()
}

func convertFieldDefinition(doc *ast.Schema, fd *ast.FieldDefinition) *schema.Field {
	f := schema.NewField(fd.Name, fd.Description, convertASTType(doc, fd.Type))
	if fd.DefaultValue != nil {
		f.SetDefault(fd.DefaultValue.String())
	}
	if reason, ok := deprecation(fd.Directives); ok {
		f.Deprecate(reason)
	}
	for _, arg := range fd.Arguments {
		a := schema.NewField(arg.Name, arg.Description, convertASTType(doc, arg.Type))
		if arg.DefaultValue != nil {
			a.SetDefault(arg.DefaultValue.String())
		}
		f.AddArgument(a)
	}
	return f
}

func convertASTType(doc *ast.Schema, t *ast.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	var ref *schema.TypeRef
	if t.Elem != nil {
		ref = schema.List(convertASTType(doc, t.Elem))
	} else {
		kind := schema.TypeKindScalar
		if def := doc.Types[t.NamedType]; def != nil {
			if k, ok := schema.ParseTypeKind(string(def.Kind)); ok {
				kind = k
			}
		}
		ref = schema.Named(kind, t.NamedType)
	}
	if t.NonNull {
		ref = schema.NonNull(ref)
	}
	return ref
}

func deprecation(dirs ast.DirectiveList) (string, bool) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return "", false
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw, true
	}
	return defaultDeprecationReason, true
}
