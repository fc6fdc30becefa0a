package ofx

import (
	"strings"
	"testing"
	"time"

	"github.com/granadev/grana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240115120000
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0260
<ACCTID>12345-6
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101
<DTEND>20240131
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240104
<TRNAMT>-15.50
<FITID>001
<NAME>PADARIA DO ZE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240105
<TRNAMT>3000.00
<FITID>002
<MEMO>SALARIO EMPRESA
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>2984.50
<DTASOF>20240131
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestParseStatement(t *testing.T) {
	drafts, err := NewParser().ParseStatement(strings.NewReader(sampleOFX))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "PADARIA DO ZE", drafts[0].Description)
	assert.Equal(t, model.KindExpense, drafts[0].Kind)
	assert.Equal(t, "15.5", drafts[0].Amount.String())
	assert.Equal(t, time.January, drafts[0].Date.Month())
	assert.Equal(t, 4, drafts[0].Date.Day())

	// No payee or name falls back to the memo.
	assert.Equal(t, "SALARIO EMPRESA", drafts[1].Description)
	assert.Equal(t, model.KindIncome, drafts[1].Kind)
	assert.Equal(t, "3000", drafts[1].Amount.String())
}

func TestParseStatementLeadingWhitespace(t *testing.T) {
	drafts, err := NewParser().ParseStatement(strings.NewReader("\r\n  " + sampleOFX))
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}

func TestParseStatementGarbage(t *testing.T) {
	_, err := NewParser().ParseStatement(strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}
