package filter

type FieldType int

const (
	StringField FieldType = iota
	DateTimeField
	BooleanField
	IntField
)

func (t FieldType) String() string {
	switch t {
	case StringField:
		return "string"
	case DateTimeField:
		return "date-time"
	case BooleanField:
		return "boolean"
	case IntField:
		return "int"
	}
	return "unknown"
}

// ColumnNaming maps an API field name to the store column holding it.
type ColumnNaming interface {
	ToDbColumn(field string) string
}

type FieldInfo struct {
	Column string
	Type   FieldType
}

// Fields describes the filterable fields of an entity, keyed by API field name.
type Fields map[string]FieldInfo

func NewFields(naming ColumnNaming, types map[string]FieldType) Fields {
	fields := make(Fields, len(types))
	for name, fieldType := range types {
		fields[name] = FieldInfo{
			Column: naming.ToDbColumn(name),
			Type:   fieldType,
		}
	}
	return fields
}

func (f Fields) lookup(name string) (FieldInfo, error) {
	info, ok := f[name]
	if !ok {
		return FieldInfo{}, &InvalidFieldError{Field: name}
	}
	return info, nil
}
