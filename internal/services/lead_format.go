package services

import (
	"fmt"
	"html"
	"strings"
)

func writeField(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<p><strong>%s :</strong> %s</p>", label, html.EscapeString(value))
}

func writeContact(b *strings.Builder, u UserData) {
	writeField(b, "Entreprise", u.Company)
	writeField(b, "N° TVA", u.VATNumber)
	writeField(b, "Chiffre d'affaires", u.RevenueLevel)
	writeField(b, "Secteur", u.Sector)
	writeField(b, "Effectif", u.Employees)
}

// FormatLeadDescription builds the description sent when the lead is created.
func FormatLeadDescription(u UserData, guideName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Source :</strong> %s</p>", html.EscapeString(guideName))
	writeContact(&b, u)
	return b.String()
}

// answerLabel renders an answer according to the bank's kind.
func answerLabel(kind AnswerKind, q Question, points int, answered bool) string {
	if !answered {
		return "Sans réponse"
	}
	if kind == AnswerBoolean {
		if points > 0 {
			return "Oui"
		}
		return "Non"
	}
	if l, ok := q.LabelFor(points); ok {
		return fmt.Sprintf("%s (%d pt)", l, points)
	}
	return fmt.Sprintf("%d pt", points)
}

// FormatResultDescription builds the description pushed once the quiz is finished.
func FormatResultDescription(g *Guide, u UserData, answers Answers, r DiagnosticResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Source :</strong> %s</p>", html.EscapeString(g.Name))
	writeContact(&b, u)
	fmt.Fprintf(&b, "<h3>Résultat du diagnostic</h3><p><strong>Score :</strong> %d / %d (%d %%)</p>", r.TotalScore, r.MaxScore, r.Percentage)
	writeField(&b, "Niveau", r.Level)
	writeField(&b, "Recommandation", g.Recommendations.Level(r.Percentage))
	for _, bl := range g.Bank.Blocks {
		if bl.Title != "" {
			fmt.Fprintf(&b, "<h4>%s</h4>", html.EscapeString(bl.Title))
		}
		b.WriteString("<ul>")
		for _, q := range bl.Questions {
			v, ok := answers[q.ID]
			fmt.Fprintf(&b, "<li>%s : %s</li>", html.EscapeString(q.Text), html.EscapeString(answerLabel(g.Bank.Kind, q, v, ok)))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}
