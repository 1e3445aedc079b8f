package importer

import (
	"regexp"
	"strings"

	"github.com/ledgerly-dev/ledgerly/internal/model"
)

// Detection identifies the institution and account type behind a
// statement file.
type Detection struct {
	BankName    string
	BankCode    string
	AccountType string
	Confidence  float64 // 0-1
	Source      string  // "filename", "headers", "content", "transactions"
}

type bankFingerprint struct {
	name        string
	code        string
	patterns    []*regexp.Regexp
	headerHints []string
}

func fp(name, code string, headerHints []string, patterns ...string) bankFingerprint {
	f := bankFingerprint{name: name, code: code, headerHints: headerHints}
	for _, p := range patterns {
		f.patterns = append(f.patterns, regexp.MustCompile(p))
	}
	return f
}

// bankFingerprints hold the patterns unique to each institution,
// matched against uppercased input.
var bankFingerprints = []bankFingerprint{
	fp("State Bank of India", "SBI", []string{"sbi", "state bank"},
		`\bSBI\b`, `\bSTATE\s*BANK\s*OF\s*INDIA\b`, `\bSBIN\b`),
	fp("HDFC Bank", "HDFC", []string{"hdfc"},
		`\bHDFC\s*BANK\b`, `\bHDFC\b(\s*LTD)?`, `\bNET\s*BANKING\s*HDFC\b`),
	fp("ICICI Bank", "ICICI", []string{"icici"},
		`\bICICI\s*BANK\b`, `\bICICI\b`),
	fp("Axis Bank", "AXIS", []string{"axis"},
		`\bAXIS\s*BANK\b`, `\bAXIS\b`),
	fp("Kotak Mahindra Bank", "KOTAK", []string{"kotak"},
		`\bKOTAK\s*MAHINDRA\b`, `\bKOTAK\s*BANK\b`, `\bKOTAK\b`),
	fp("IDFC First Bank", "IDFC", []string{"idfc"},
		`\bIDFC\s*FIRST\b`, `\bIDFC\s*BANK\b`, `\bIDFC\b`),
	fp("JPMorgan Chase", "CHASE", []string{"chase", "jpmorgan"},
		`\bCHASE\b`, `\bJPMORGAN\b`, `\bJ\.?P\.?\s*MORGAN\b`),
	fp("Citibank", "CITI", []string{"citi"},
		`\bCITIBANK\b`, `\bCITI\s*BANK\b`, `\bCITI\b`),
	fp("American Express", "AMEX", []string{"amex", "american express"},
		`\bAMERICAN\s*EXPRESS\b`, `\bAMEX\b`),
	fp("HSBC", "HSBC", []string{"hsbc"},
		`\bHSBC\b`, `\bHONGKONG\s*AND\s*SHANGHAI\b`),
	fp("Standard Chartered", "SC", []string{"standard chartered"},
		`\bSTANDARD\s*CHARTERED\b`, `\bSTAN\s*CHART\b`),
	fp("DBS Bank", "DBS", []string{"dbs"},
		`\bDBS\s*BANK\b`, `\bDBS\b`),
	fp("Qatar National Bank", "QNB", []string{"qnb"},
		`\bQNB\b`, `\bQATAR\s*NATIONAL\s*BANK\b`),
	fp("Emirates NBD", "ENBD", []string{"emirates nbd"},
		`\bEMIRATES\s*NBD\b`, `\bENBD\b`),
	fp("Paytm Payments Bank", "PAYTM", []string{"paytm"},
		`\bPAYTM\b`),
	fp("Revolut", "REVOLUT", []string{"revolut"},
		`\bREVOLUT\b`),
	fp("Wise", "WISE", []string{"wise", "transferwise"},
		`\bTRANSFERWISE\b`, `\bWISE\b`),
}

type accountTypePattern struct {
	accountType string
	patterns    []*regexp.Regexp
}

func atp(accountType string, patterns ...string) accountTypePattern {
	a := accountTypePattern{accountType: accountType}
	for _, p := range patterns {
		a.patterns = append(a.patterns, regexp.MustCompile(p))
	}
	return a
}

// accountTypePatterns are checked in order. Credit card signals rank
// first; savings comes last as the default statement type.
var accountTypePatterns = []accountTypePattern{
	atp("credit_card",
		`\bCREDIT\s*CARD\b`, `\bCC\s*STATEMENT\b`, `\bCARD\s*STATEMENT\b`,
		`\bMINIMUM\s*(DUE|PAYMENT)\b`, `\bCREDIT\s*LIMIT\b`,
		`\bPAYMENT\s*DUE\s*DATE\b`, `\bBILLING\s*CYCLE\b`),
	atp("current",
		`\bCURRENT\s*ACCOUNT\b`, `\bCHECKING\s*ACCOUNT\b`, `\bCURRENT\s*A/?C\b`,
		`\bBUSINESS\s*ACCOUNT\b`),
	atp("NRO", `\bNRO\b`, `\bNON[\s\-]*RESIDENT\s*ORDINARY\b`),
	atp("NRE", `\bNRE\b`, `\bNON[\s\-]*RESIDENT\s*EXTERNAL\b`),
	atp("salary", `\bSALARY\s*ACCOUNT\b`, `\bSALARY\s*A/?C\b`, `\bPAYROLL\s*ACCOUNT\b`),
	atp("FD", `\bFIXED\s*DEPOSIT\b`, `\bFD\s*STATEMENT\b`, `\bTERM\s*DEPOSIT\b`),
	atp("RD", `\bRECURRING\s*DEPOSIT\b`, `\bRD\s*STATEMENT\b`),
	atp("stocks", `\bDEMAT\b`, `\bTRADING\s*ACCOUNT\b`, `\bZERODHA\b`, `\bGROWW\b`),
	atp("wallet", `\bWALLET\b`, `\bPREPAID\b`),
	atp("savings",
		`\bSAVINGS?\s*ACCOUNT\b`, `\bSAVINGS?\s*A/?C\b`, `\bSB\s*ACCOUNT\b`,
		`\bSAVINGS?\s*BANK\b`),
}

var statementKeywords = regexp.MustCompile(`\b(STATEMENT|LEDGER|PASSBOOK|ACCOUNT\s*SUMMARY)\b`)

var filenameSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// DetectFromFilename fingerprints the file name alone. Separators are
// normalized to spaces so word boundaries line up.
func DetectFromFilename(filename string) Detection {
	if filename == "" {
		return Detection{}
	}

	upper := strings.ToUpper(filenameSeparators.Replace(filename))
	result := Detection{Source: "filename"}

	for _, bank := range bankFingerprints {
		if matchAny(bank.patterns, upper) {
			result.BankName = bank.name
			result.BankCode = bank.code
			result.Confidence = 0.7
			break
		}
	}

	for _, acct := range accountTypePatterns {
		if matchAny(acct.patterns, upper) {
			result.AccountType = acct.accountType
			result.Confidence = max(result.Confidence, 0.6)
			break
		}
	}

	return result
}

// DetectFromHeaders fingerprints CSV column header names.
func DetectFromHeaders(headers []string) Detection {
	if len(headers) == 0 {
		return Detection{}
	}

	joined := strings.ToLower(strings.Join(headers, " "))
	result := Detection{Source: "headers"}

	for _, bank := range bankFingerprints {
		for _, hint := range bank.headerHints {
			if strings.Contains(joined, hint) {
				result.BankName = bank.name
				result.BankCode = bank.code
				result.Confidence = 0.5
				break
			}
		}
		if result.BankName != "" {
			break
		}
	}

	return result
}

// DetectFromText fingerprints full statement text. Banks are scored by
// how many distinct patterns match, total match frequency, and whether
// a pattern appears in the header area (first 500 chars).
func DetectFromText(text string) Detection {
	if text == "" {
		return Detection{}
	}

	upper := strings.ToUpper(text)
	headerArea := upper
	if len(headerArea) > 500 {
		headerArea = headerArea[:500]
	}
	result := Detection{Source: "content"}

	bestScore := 0
	for _, bank := range bankFingerprints {
		distinct := 0
		frequency := 0
		headerBonus := 0
		for _, re := range bank.patterns {
			matches := re.FindAllString(upper, -1)
			if len(matches) > 0 {
				distinct++
				frequency += len(matches)
				if re.MatchString(headerArea) {
					headerBonus += 2
				}
			}
		}
		score := distinct*10 + frequency + headerBonus
		if score > bestScore {
			bestScore = score
			result.BankName = bank.name
			result.BankCode = bank.code
			result.Confidence = min(0.5+float64(distinct)*0.15, 0.95)
		}
	}

	for _, acct := range accountTypePatterns {
		if matchAny(acct.patterns, upper) {
			result.AccountType = acct.accountType
			result.Confidence = max(result.Confidence, 0.7)
			break
		}
	}

	// A bank with no account-type signal but statement-like text is most
	// likely a savings account.
	if result.BankName != "" && result.AccountType == "" && statementKeywords.MatchString(upper) {
		result.AccountType = "savings"
		result.Confidence = max(result.Confidence, 0.4)
	}

	return result
}

// DetectFromTransactions fingerprints a batch of parsed rows through
// their descriptions. Needs at least two hits to commit to a bank.
func DetectFromTransactions(txns []model.BankTransaction) Detection {
	if len(txns) == 0 {
		return Detection{}
	}

	sample := txns
	if len(sample) > 50 {
		sample = sample[:50]
	}
	var sb strings.Builder
	for _, t := range sample {
		sb.WriteString(t.Description)
		sb.WriteString(" ")
	}
	upper := strings.ToUpper(sb.String())

	result := Detection{Source: "transactions"}
	bestScore := 0
	for _, bank := range bankFingerprints {
		count := 0
		for _, re := range bank.patterns {
			count += len(re.FindAllString(upper, -1))
		}
		if count > bestScore && count >= 2 {
			bestScore = count
			result.BankName = bank.name
			result.BankCode = bank.code
			result.Confidence = min(0.3+float64(count)*0.05, 0.7)
		}
	}

	return result
}

// Detect runs all strategies and merges: the highest-confidence bank hit
// and the highest-confidence account-type hit win.
func Detect(filename string, headers []string, text string, txns []model.BankTransaction) Detection {
	candidates := []Detection{
		DetectFromText(text),
		DetectFromFilename(filename),
		DetectFromHeaders(headers),
		DetectFromTransactions(txns),
	}

	var best Detection
	for _, c := range candidates {
		if c.BankName != "" && c.Confidence > best.Confidence {
			best.BankName = c.BankName
			best.BankCode = c.BankCode
			best.Confidence = c.Confidence
			best.Source = c.Source
		}
	}

	bestAcctConf := 0.0
	for _, c := range candidates {
		if c.AccountType != "" && c.Confidence > bestAcctConf {
			bestAcctConf = c.Confidence
			best.AccountType = c.AccountType
			if best.Source == "" {
				best.Source = c.Source
			}
		}
	}
	best.Confidence = max(best.Confidence, bestAcctConf)

	return best
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
