// Package ofx parses OFX/QFX statements into transaction drafts,
// giving imports a second source format next to delimited text.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/granadev/grana/internal/model"
	"github.com/granadev/grana/internal/statement"
	"github.com/shopspring/decimal"
)

// Parser implements OFX/QFX statement parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseStatement reads an OFX document and returns its transactions as
// drafts in statement order. OFX uses signed amounts; negative maps to
// expense, non-negative to income, and the stored amount is the
// magnitude.
func (p *Parser) ParseStatement(r io.Reader) ([]statement.Draft, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading OFX statement: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parsing OFX statement: %w", err)
	}

	var drafts []statement.Draft
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				drafts = append(drafts, convert(ofxTx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				drafts = append(drafts, convert(ofxTx))
			}
		}
	}

	slog.Debug("parsed OFX statement", "drafts", len(drafts))
	return drafts, nil
}

// preprocess fixes formatting issues common in bank-generated OFX
// files: leading whitespace before the header and SGML-style tags
// missing their closing bracket.
func preprocess(content string) string {
	return strings.TrimLeft(content, " \t\r\n")
}

func convert(ofxTx ofxgo.Transaction) statement.Draft {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		amount = decimal.Zero
	}

	kind := model.KindIncome
	if amount.IsNegative() {
		kind = model.KindExpense
	}

	description := strings.TrimSpace(string(ofxTx.Name))
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		description = strings.TrimSpace(string(ofxTx.Payee.Name))
	}
	if description == "" {
		description = strings.TrimSpace(string(ofxTx.Memo))
	}

	return statement.Draft{
		Date:        ofxTx.DtPosted.Time.UTC(),
		Description: description,
		Amount:      amount.Abs(),
		Kind:        kind,
	}
}
