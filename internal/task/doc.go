// Package task defines the task model: a shared core of title, description,
// due date and completion flag, one of three kinds, and an ordered set of
// extra attributes.
//
// # Kinds
//
//   - Plain: no named field.
//   - Prioritized: carries a priority (default "Medium").
//   - Recurring: carries a recurrence (default "daily").
//
// The kind field is stored apart from the extras and is rendered in its own
// column. Keys equal to a core field name or to the kind's field name never
// land in Extras.
//
// # Dates
//
// Due dates have no time component and are kept as UTC midnight. The zero
// time means "no date" and renders as "None".
package task
