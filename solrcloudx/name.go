package solrcloudx

import "regexp"

var isLegalName = regexp.MustCompile(`^[A-Za-z0-9_.][A-Za-z0-9_.-]*$`).MatchString

// LegalName reports whether name is accepted by Solr as a collection, alias or
// configset name: ASCII letters, digits, underscore, dot and dash, not starting
// with a dash.
func LegalName(name string) bool {
	return isLegalName(name)
}

// Named is anything identified by a name, such as a Collection or a bare CollectionName.
type Named interface {
	Name() string
}

// CollectionName is a bare collection name usable wherever a Named is expected.
type CollectionName string

func (n CollectionName) Name() string {
	return string(n)
}
