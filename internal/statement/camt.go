// Package statement imports bank statements into analytics transactions.
package statement

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dan9191/bank-insights/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// ErrNotCAMT is returned when the document is well-formed XML but not a CAMT.053 statement.
var ErrNotCAMT = errors.New("document is not a CAMT.053 statement")

const (
	debitIndicator  = "DBIT"
	creditIndicator = "CRDT"
)

// ParseCAMT053 reads booked entries from an ISO 20022 CAMT.053 statement.
// Debits become positive (spend) amounts and credits negative ones.
func ParseCAMT053(r io.Reader) ([]models.Transaction, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "Document" || root.FindElement("./BkToCstmrStmt") == nil {
		return nil, ErrNotCAMT
	}

	entries := root.FindElements("./BkToCstmrStmt/Stmt/Ntry")
	txns := make([]models.Transaction, 0, len(entries))
	for i, ntry := range entries {
		txn, err := parseEntry(ntry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseEntry(ntry *etree.Element) (models.Transaction, error) {
	amount, err := decimal.NewFromString(childText(ntry, "./Amt"))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}

	indicator := childText(ntry, "./CdtDbtInd")
	var counterparty string
	switch indicator {
	case debitIndicator:
		counterparty = childText(ntry, "./NtryDtls/TxDtls/RltdPties/Cdtr/Nm")
	case creditIndicator:
		amount = amount.Neg()
		counterparty = childText(ntry, "./NtryDtls/TxDtls/RltdPties/Dbtr/Nm")
	default:
		return models.Transaction{}, fmt.Errorf("invalid credit/debit indicator %q", indicator)
	}

	txn := models.Transaction{
		Amount:          amount.InexactFloat64(),
		Timestamp:       firstText(ntry, "./BookgDt/DtTm", "./BookgDt/Dt", "./ValDt/DtTm", "./ValDt/Dt"),
		Channel:         firstText(ntry, "./AddtlNtryInf", "./NtryDtls/TxDtls/RmtInf/Ustrd"),
		MerchantName:    counterparty,
		TransactionType: strings.ToLower(indicator),
	}
	if ref := firstText(ntry, "./AcctSvcrRef", "./NtryRef", "./NtryDtls/TxDtls/Refs/EndToEndId"); ref != "" {
		txn.ID = models.NewTransactionID(ref)
	}
	return txn, nil
}

func childText(e *etree.Element, path string) string {
	if child := e.FindElement(path); child != nil {
		return strings.TrimSpace(child.Text())
	}
	return ""
}

func firstText(e *etree.Element, paths ...string) string {
	for _, p := range paths {
		if text := childText(e, p); text != "" {
			return text
		}
	}
	return ""
}
