package renderer

import "github.com/etnz/pocketbook"

// MovementLog is the view of the movement history, most recent last.
type MovementLog struct {
	Rows []MovementRow
}

type MovementRow struct {
	Date     string
	Type     string
	Amount   string
	Account  string
	Pocket   string
	Notes    string
	Pending  bool
	Orphaned bool
}

// NewMovementLog builds the movement view. Filters restrict the listing
// the same way they do on the book iterator. Orphaned movements name
// their lost parent with a placeholder.
func NewMovementLog(b *pocketbook.Book, filters ...func(*pocketbook.Movement) bool) *MovementLog {
	l := &MovementLog{}
	for m := range b.Movements(filters...) {
		row := MovementRow{
			Date:     m.Date.String(),
			Type:     string(m.Type),
			Amount:   m.Signed().SignedString(),
			Account:  "(deleted)",
			Pocket:   "(deleted)",
			Notes:    m.Notes,
			Pending:  m.Pending,
			Orphaned: m.Orphaned != pocketbook.OrphanNone,
		}
		if account := b.Account(m.AccountID); account != nil {
			row.Account = account.Name
		}
		if pocket := b.Pocket(m.PocketID); pocket != nil {
			row.Pocket = pocket.Name
			if sub := b.SubPocket(m.SubPocketID); sub != nil {
				row.Pocket = pocket.Name + "/" + sub.Name
			}
		}
		l.Rows = append(l.Rows, row)
	}
	return l
}

// RenderMovementLog renders the MovementLog view to a markdown string.
func RenderMovementLog(l *MovementLog) string {
	return renderTemplate("movements", "movements.md", nil, l)
}
