package schema

var builtinScalars = map[string]string{
	"String":  "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
	"Int":     "The `Int` scalar type represents non-fractional signed whole numeric values.",
	"Float":   "The `Float` scalar type represents signed double-precision fractional values.",
	"Boolean": "The `Boolean` scalar type represents `true` or `false`.",
	"ID":      "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
}

// IsBuiltinScalar reports whether name is one of the five specified scalars.
func IsBuiltinScalar(name string) bool {
	_, ok := builtinScalars[name]
	return ok
}

// AddBuiltinScalars registers any missing specified scalars. Introspection
// results always carry them, SDL documents usually do not.
func (s *Schema) AddBuiltinScalars() *Schema {
	for name, desc := range builtinScalars {
		if _, ok := s.Types[name]; ok {
			continue
		}
		s.AddType(&Type{Name: name, Kind: TypeKindScalar, Description: desc})
	}
	return s
}
