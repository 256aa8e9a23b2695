package cache

const (
	propertyPrefix   = "property:"
	propertiesPrefix = "properties:"
)

func PropertyKey(id string) string {
	return propertyPrefix + id
}

func PropertiesKey(filters string) string {
	return propertiesPrefix + filters
}

// Invalidator drops cached entries made stale by writes.
type Invalidator interface {
	Delete(key string)
	InvalidatePrefix(prefix string) int
}

// InvalidateProperty removes a property and every cached property list.
func InvalidateProperty(c Invalidator, id string) {
	c.Delete(PropertyKey(id))
	c.InvalidatePrefix(propertiesPrefix)
}
