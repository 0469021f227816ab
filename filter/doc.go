/*
Package filter selects contacts with expr-lang expressions.

An expression sees the contact fields ID, Email, Name, Status, Tags, Lists,
Fields and Created, the whole contact as Contact, and these helpers:

	hasTag("vip")             contact carries the tag (case-insensitive)
	inList("newsletter")      contact is on the list (case-insensitive)
	field("city")             custom field value, "" when unset
	daysSince(Created)        whole days since a time
	daysAgo(30)               the time 30 days back
	parseDate("2024-01-31")   a date
	lower(s), upper(s), now()

The expr operators contains, startsWith, endsWith and matches work on
strings, for example lower(Email) endsWith "@example.com".

An empty expression matches every contact. Compiled programs are kept in an
LRU cache when the compiler is created with WithCache.

# Usage

	m := filter.NewManager()
	if err := m.RegisterFilters(map[string]string{"stale": `daysSince(Created) > 365 and not hasTag("vip")`}); err != nil {
		return err
	}
	f, err := m.Resolve("stale", "")
	if err != nil {
		return err
	}
	matches, err := m.Select(ctx, f, contacts)
*/
package filter
