package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/theapemachine/contract-search/pkg/contract"
)

/*
Agreement renders one agreement as a bordered card. Empty fields are
left out, so a short projection renders compactly.
*/
func Agreement(agreement *contract.Agreement) string {
	if agreement == nil {
		return errorStyle.Render("contract not found")
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("#%d %s", agreement.ContractID, title(*agreement))),
	}

	for _, field := range [][2]string{
		{"Type", agreement.AgreementType},
		{"Agreement date", agreement.AgreementDate},
		{"Effective date", agreement.EffectiveDate},
		{"Expiration date", agreement.ExpirationDate},
		{"Renewal term", agreement.RenewalTerm},
		{"Notice to terminate", agreement.NoticePeriodToTerminateRenewal},
	} {
		if field[1] != "" {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(field[0]), field[1]))
		}
	}

	for _, party := range agreement.Parties {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			labelStyle.Render(party.Role),
			fmt.Sprintf("%s (%s)", party.Name, location(party)),
		))
	}

	if len(agreement.Clauses) > 0 {
		lines = append(lines, "", Clauses(agreement.Clauses))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

// Agreements renders a list of agreements as a table, one row per agreement.
func Agreements(agreements []contract.Agreement) string {
	if len(agreements) == 0 {
		return labelStyle.Render("no contracts")
	}

	rows := make([][]string, 0, len(agreements))
	showScore := false

	for _, agreement := range agreements {
		if agreement.Score != 0 {
			showScore = true
		}
	}

	for _, agreement := range agreements {
		names := make([]string, 0, len(agreement.Parties))

		for _, party := range agreement.Parties {
			names = append(names, party.Name)
		}

		row := []string{
			strconv.FormatInt(agreement.ContractID, 10),
			title(agreement),
			agreement.AgreementType,
			strings.Join(names, ", "),
		}

		if showScore {
			row = append(row, strconv.FormatFloat(agreement.Score, 'f', 3, 64))
		}

		rows = append(rows, row)
	}

	headers := []string{"ID", "Name", "Type", "Parties"}

	if showScore {
		headers = append(headers, "Score")
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(indigo)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// Clauses renders clause types with their excerpts indented below.
func Clauses(clauses []contract.ContractClause) string {
	if len(clauses) == 0 {
		return labelStyle.Render("no clauses")
	}

	lines := make([]string, 0, len(clauses))

	for _, clause := range clauses {
		lines = append(lines, clauseStyle.Render(clause.ClauseType.String()))

		for _, excerpt := range clause.Excerpts {
			lines = append(lines, excerptStyle.Render("“"+excerpt+"”"))
		}
	}

	return strings.Join(lines, "\n")
}

func Answer(answer string) string {
	if strings.TrimSpace(answer) == "" {
		return labelStyle.Render("no answer")
	}

	return strings.TrimRight(answer, "\n")
}

func Error(err error) string {
	return errorStyle.Render(err.Error())
}

// title prefers the node name; the semantic path only carries agreement_name.
func title(agreement contract.Agreement) string {
	if agreement.Name != "" {
		return agreement.Name
	}

	return agreement.AgreementName
}

func location(party contract.Party) string {
	if party.IncorporationState == "" {
		return party.IncorporationCountry
	}

	return party.IncorporationState + ", " + party.IncorporationCountry
}
