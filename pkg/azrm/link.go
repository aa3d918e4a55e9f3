package azrm

import "strings"

// BuildLink builds a resource path of the form
//
//	/subscriptions/{id}[/resourceGroups/{rg}][/providers]/{location}/
//
// The trailing slash lets callers append an item name directly. location is
// passed through unchecked; an empty resourceGroup omits that segment.
func BuildLink(subscriptionID, resourceGroup string, includeProvider bool, location string) string {
	var b strings.Builder

	b.WriteString("/subscriptions/")
	b.WriteString(subscriptionID)

	if resourceGroup != "" {
		b.WriteString("/resourceGroups/")
		b.WriteString(resourceGroup)
	}

	if includeProvider {
		b.WriteString("/providers")
	}

	b.WriteString("/")
	b.WriteString(location)
	b.WriteString("/")

	return b.String()
}
