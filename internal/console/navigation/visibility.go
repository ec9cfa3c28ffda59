package navigation

import "shivaccounts.cloud/console/internal/console/rbac"

// VisibleSections filters sections down to the entries the role may see.
// Order is preserved and sections left without items are dropped.
func VisibleSections(role rbac.Role, sections []Section) []Section {
	rule := rbac.VisibilityFor(role)
	out := make([]Section, 0, len(sections))
	for _, section := range sections {
		items := make([]Entry, 0, len(section.Items))
		for _, item := range section.Items {
			if rule.Permits(item.Key) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, Section{Title: section.Title, Items: items})
	}
	return out
}
