package models

// Platform hints understood by the analysis service.
const (
	PlatformEmail    = "email"
	PlatformSMS      = "sms"
	PlatformWhatsApp = "whatsapp"
	PlatformSocial   = "social"
	PlatformOther    = "other"
)

// AnalysisRequest is the envelope posted to /api/analyze.
//
// None of the nested enrichment fields use omitempty: the service expects the
// full schema on every request, with nulls where nothing is known.
type AnalysisRequest struct {
	RawInput     string     `json:"raw_input"`
	PlatformHint string     `json:"platform_hint"`
	Enrichment   Enrichment `json:"enrichment"`
}

// Enrichment is the slot set reserved for third-party threat intelligence.
type Enrichment struct {
	ExtractedURL          *string      `json:"extracted_url"`
	SafeBrowsing          SafeBrowsing `json:"safe_browsing"`
	VirusTotal            VirusTotal   `json:"virustotal"`
	URLScan               URLScan      `json:"urlscan"`
	Whois                 Whois        `json:"whois"`
	TLS                   TLSInfo      `json:"tls"`
	CTLogs                CTLogs       `json:"ct_logs"`
	DNS                   DNSInfo      `json:"dns"`
	IPReputation          IPReputation `json:"ip_reputation"`
	DomainReputationScore *float64     `json:"domain_reputation_score"`
	BlacklistMatches      []string     `json:"blacklist_matches"`
	PriorScansForDomain   *int         `json:"prior_scans_for_domain"`
	Sandbox               Sandbox      `json:"sandbox"`
}

type SafeBrowsing struct {
	Verdict   *string  `json:"verdict"`
	Score     *float64 `json:"score"`
	DetailURL *string  `json:"detail_url"`
}

type VirusTotal struct {
	MaliciousCount  *int     `json:"malicious_count"`
	SuspiciousCount *int     `json:"suspicious_count"`
	Score           *float64 `json:"score"`
	DetailURL       *string  `json:"detail_url"`
}

type URLScan struct {
	Verdict       *string `json:"verdict"`
	ScreenshotURL *string `json:"screenshot_url"`
	DetailURL     *string `json:"detail_url"`
}

type Whois struct {
	CreatedDate  *string `json:"created_date"`
	AgeDays      *int    `json:"age_days"`
	Registrar    *string `json:"registrar"`
	AbuseContact *string `json:"abuse_contact"`
}

type TLSInfo struct {
	Valid              *bool   `json:"valid"`
	CertificateSubject *string `json:"certificate_subject"`
	Issuer             *string `json:"issuer"`
	NotAfter           *string `json:"not_after"`
}

type CTLogs struct {
	MatchingEntries *int    `json:"matching_entries"`
	LatestEntry     *string `json:"latest_entry"`
}

type DNSInfo struct {
	ResolvedIPs   []string `json:"resolved_ips"`
	ARecordsCount *int     `json:"a_records_count"`
	RBLHits       []string `json:"rbl_hits"`
}

type IPReputation struct {
	IsMalicious *bool   `json:"is_malicious"`
	Source      *string `json:"source"`
}

// Sandbox carries the detonation summary. Performed and DownloadsDetected are
// plain booleans on the wire and start out false.
type Sandbox struct {
	Performed         bool     `json:"performed"`
	BehaviorSummary   *string  `json:"behavior_summary"`
	DownloadsDetected bool     `json:"downloads_detected"`
	NetworkCalls      []string `json:"network_calls"`
	ScreenshotURL     *string  `json:"screenshot_url"`
}
