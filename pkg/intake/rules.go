package intake

import (
	"regexp"
	"strings"
)

// Legal domains reported for queries.
const (
	DomainCriminal       = "criminal"
	DomainCivil          = "civil"
	DomainCorporate      = "corporate"
	DomainFamily         = "family"
	DomainLabor          = "labor"
	DomainProperty       = "property"
	DomainConsumer       = "consumer"
	DomainConstitutional = "constitutional"
	DomainTax            = "tax"
	DomainGeneral        = "general"
)

// Document types reported for document requests.
const (
	DocumentRentalAgreement     = "rental_agreement"
	DocumentSaleDeed            = "sale_deed"
	DocumentPowerOfAttorney     = "power_of_attorney"
	DocumentAffidavit           = "affidavit"
	DocumentLegalNotice         = "legal_notice"
	DocumentContract            = "contract"
	DocumentWill                = "will"
	DocumentPartnershipDeed     = "partnership_deed"
	DocumentMOU                 = "memorandum_of_understanding"
	DocumentNDA                 = "non_disclosure_agreement"
	DocumentEmploymentAgreement = "employment_agreement"
	DocumentGeneral             = "general"
)

// KeywordRule labels text containing any of its keywords (case-insensitive
// substring match).
type KeywordRule struct {
	Label    string
	Keywords []string
}

// Matches reports whether lower (already lower-cased) contains a keyword.
func (r KeywordRule) Matches(lower string) bool {
	for _, keyword := range r.Keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// QueryDomains is evaluated top to bottom; the first matching rule wins.
// Criminal comes first.
var QueryDomains = []KeywordRule{
	{Label: DomainCriminal, Keywords: []string{
		"theft", "murder", "assault", "robbery", "fraud", "cheating",
		"criminal", "crime", "offense", "offence", "ipc", "fir", "police",
		"arrest", "bail", "investigation", "accused", "victim", "hurt",
		"kidnapping", "extortion", "forgery", "defamation", "trespass",
	}},
	{Label: DomainFamily, Keywords: []string{
		"divorce", "marriage", "custody", "alimony", "adoption", "domestic violence", "guardianship",
	}},
	{Label: DomainLabor, Keywords: []string{
		"wages", "gratuity", "provident fund", "layoff", "retrenchment", "workman", "labour", "labor", "wrongful termination",
	}},
	{Label: DomainConsumer, Keywords: []string{
		"consumer", "defective", "refund", "warranty", "deficiency in service", "e-commerce",
	}},
	{Label: DomainTax, Keywords: []string{
		"income tax", "gst", "tds", "tax notice", "tax return", "assessment order",
	}},
	{Label: DomainCorporate, Keywords: []string{
		"company", "companies act", "shareholder", "director", "merger", "startup", "llp", "insolvency",
	}},
	{Label: DomainConstitutional, Keywords: []string{
		"fundamental right", "article 14", "article 19", "article 21", "writ", "constitution", "public interest litigation",
	}},
	{Label: DomainProperty, Keywords: []string{
		"property", "land", "tenant", "landlord", "rent", "lease", "mutation", "encroachment",
	}},
	{Label: DomainCivil, Keywords: []string{
		"civil suit", "injunction", "damages", "negligence", "recovery suit", "specific performance", "breach of contract",
	}},
}

// DocumentTypes is evaluated top to bottom; the first matching rule wins. The
// order matters where vocabularies overlap ("rental agreement" is rental, not
// contract).
var DocumentTypes = []KeywordRule{
	{Label: DocumentRentalAgreement, Keywords: []string{"rent", "rental", "lease", "tenant", "landlord", "tenancy"}},
	{Label: DocumentSaleDeed, Keywords: []string{"sale", "sell", "purchase", "buyer", "seller", "property sale"}},
	{Label: DocumentPowerOfAttorney, Keywords: []string{"power of attorney", "poa", "authorize", "attorney"}},
	{Label: DocumentAffidavit, Keywords: []string{"affidavit", "sworn statement", "declare", "oath"}},
	{Label: DocumentLegalNotice, Keywords: []string{"legal notice", "notice", "demand", "warning"}},
	{Label: DocumentContract, Keywords: []string{"contract", "agreement", "terms", "conditions"}},
	{Label: DocumentWill, Keywords: []string{"will", "testament", "inheritance", "bequest", "heir"}},
	{Label: DocumentPartnershipDeed, Keywords: []string{"partnership", "partner", "partners deed"}},
	{Label: DocumentMOU, Keywords: []string{"mou", "memorandum", "understanding"}},
	{Label: DocumentNDA, Keywords: []string{"nda", "non-disclosure", "confidentiality", "confidential"}},
	{Label: DocumentEmploymentAgreement, Keywords: []string{"employment", "employee", "job", "salary", "work agreement"}},
}

// Classify returns the label of the first rule matching text, or fallback.
func Classify(rules []KeywordRule, text, fallback string) string {
	lower := strings.ToLower(text)
	for _, rule := range rules {
		if rule.Matches(lower) {
			return rule.Label
		}
	}
	return fallback
}

// harmfulPatterns are removed during sanitising and checked again afterwards.
var harmfulPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script.*?>.*?</script>`),
	regexp.MustCompile(`(?i)</?script[^>]*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?is)<iframe.*?>`),
	regexp.MustCompile(`(?is)<object.*?>`),
}

// InfoCheck is a presence test over the lower-cased request. When Pattern
// does not match, Hint is suggested to the caller.
type InfoCheck struct {
	Pattern *regexp.Regexp
	Hint    string
}

// CommonChecks apply to every document request.
var CommonChecks = []InfoCheck{
	{Pattern: regexp.MustCompile(`name|party|between`), Hint: "names of parties involved"},
	{Pattern: regexp.MustCompile(`date|duration|period|term`), Hint: "relevant dates or time periods"},
}

// DocumentChecks apply after CommonChecks for the detected document type.
var DocumentChecks = map[string][]InfoCheck{
	DocumentRentalAgreement: {
		{Pattern: regexp.MustCompile(`rent|amount|₹|rs`), Hint: "rent amount"},
		{Pattern: regexp.MustCompile(`address|property|location|premises`), Hint: "property address"},
	},
	DocumentSaleDeed: {
		{Pattern: regexp.MustCompile(`price|consideration|amount`), Hint: "sale price/consideration"},
		{Pattern: regexp.MustCompile(`property|land|house|flat|plot`), Hint: "property details"},
	},
	DocumentEmploymentAgreement: {
		{Pattern: regexp.MustCompile(`salary|compensation|ctc|pay`), Hint: "salary/compensation details"},
		{Pattern: regexp.MustCompile(`designation|role|position|job`), Hint: "job designation/role"},
	},
}

// MissingInfo lists hints for details the request does not seem to mention.
func MissingInfo(text, documentType string) []string {
	lower := strings.ToLower(text)
	var missing []string
	for _, check := range CommonChecks {
		if !check.Pattern.MatchString(lower) {
			missing = append(missing, check.Hint)
		}
	}
	for _, check := range DocumentChecks[documentType] {
		if !check.Pattern.MatchString(lower) {
			missing = append(missing, check.Hint)
		}
	}
	return missing
}
