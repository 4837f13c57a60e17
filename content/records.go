package content

var editions = map[Edition]Bundle{
	EditionWebsite:   website,
	EditionSolarFull: solarFull,
}

var nav = []NavItem{
	{Label: "Home", Href: "/"},
	{Label: "Awards", Href: "/awards"},
	{Label: "Frequent Authors", Href: "/frequent-authors"},
	{Label: "History", Href: "/history"},
	{Label: "Mailing List", Href: "/mailing-list"},
	{Label: "Newsletter", Href: "/newsletter"},
	{Label: "Procedures", Href: "/procedures"},
	{Label: "Student Activities", Href: "/student-activities"},
	{Label: "ACM Fellows", Href: "/acm-fellows"},
	{Label: "ACM OpenTOC", Href: "/acm-opentoc"},
	{Label: "DEI", Href: "/dei"},
	{Label: "Volunteering", Href: "/volunteering"},
}

var officers = []Officer{
	{Role: "SIG Chair", Name: "Mor Harchol-Balter", Href: "https://www.cs.cmu.edu/"},
	{Role: "SIG Vice Chair", Name: "Niklas Carlsson", Href: "https://www.ida.liu.se/"},
	{Role: "SIG Secretary/Treasurer", Name: "Anshul Gandhi", Href: "https://www3.cs.stonybrook.edu/"},
	{Role: "PER Editor", Name: "Bo Ji", Href: "https://people.cs.vt.edu/"},
	{Role: "Bulletin Board Editor", Name: "William Cheng", Href: "https://merlot.usc.edu/"},
	{Role: "SIG Webmaster", Name: "Mohammad Hajiesmaili", Href: "https://groups.cs.umass.edu/"},
}

var committees = Committees{
	BoardOfDirectors: []Member{
		{Name: "Giulia Fanti", Href: "https://gfanti.github.io/"},
		{Name: "Y.C. Tay", Href: "https://www.comp.nus.edu.sg/"},
		{Name: "Devavrat Shah", Href: "https://devavrat.mit.edu/"},
		{Name: "Benny van Houdt", Href: "https://win.uantwerpen.be/"},
	},
	ExecutiveCommitteeNote: "This is the steering committee of ACM SIGMETRICS as per its bylaws.",
	ExecutiveCommitteeMembers: []string{
		"Niklas Carlsson",
		"Giulia Fanti",
		"Anshul Gandhi",
		"Mor Harchol-Balter",
		"Athina Markopoulou",
		"Devavrat Shah",
		"Benny van Houdt",
	},
}

const (
	title   = "ACM SIGMETRICS"
	tagline = "Special Interest Group on Performance Evaluation"
	webmail = "webmaster@sigmetrics.org"
	twitter = "https://twitter.com/ACMSigmetrics"
)

var website = Bundle{
	Edition: EditionWebsite,
	Site: Site{
		Title:       title,
		Tagline:     tagline,
		Description: "ACM SIGMETRICS is the ACM Special Interest Group (SIG) for the computer performance evaluation community.",
		Contact:     Contact{Email: webmail},
		Social:      map[string]string{"x": twitter},
	},
	Nav:        nav,
	Officers:   officers,
	Committees: committees,
	Links: Links{
		"sigmetricsConference": "https://www.sigmetrics.org/",
		"pomacs":               "https://dl.acm.org/journal/pomacs",
		"joinSigmetrics":       "https://campus.acm.org/public/quickjoin/sigs.cfm",
		"joinAcm":              "https://campus.acm.org/public/quickjoin/assoc.cfm",
		"acmStore":             "https://store.acm.org/",
	},
}

// solarFull differs in its description, carries the legacy page URLs and
// adds the ACM home link.
var solarFull = Bundle{
	Edition: EditionSolarFull,
	Site: Site{
		Title:       title,
		Tagline:     tagline,
		Description: "SIGMETRICS is the ACM Special Interest Group (SIG) for the computer performance evaluation community.",
		Contact:     Contact{Email: webmail},
		Social:      map[string]string{"x": twitter},
		Originals: map[string]string{
			"home":              "https://www.sigmetrics.org/",
			"awards":            "https://www.sigmetrics.org/awards.shtml",
			"frequentAuthors":   "https://sigmetrics.org/frequent-authors.shtml",
			"history":           "https://www.sigmetrics.org/history.shtml",
			"mailingList":       "https://www.sigmetrics.org/mailinglist.shtml",
			"newsletter":        "https://www.sigmetrics.org/per.shtml",
			"procedures":        "https://www.sigmetrics.org/procedures.shtml",
			"studentActivities": "https://sigmetrics.org/students.shtml",
			"acmFellows":        "https://www.sigmetrics.org/acm-fellows.shtml",
			"acmOpenTOC":        "https://www.sigmetrics.org/opentoc.shtml",
			"dei":               "https://www.sigmetrics.org/DEI.shtml",
			"volunteering":      "https://www.sigmetrics.org/volunteers.shtml",
		},
	},
	Nav:        nav,
	Officers:   officers,
	Committees: committees,
	Links: Links{
		"pomacs":               "https://dl.acm.org/journal/pomacs",
		"acm":                  "https://www.acm.org",
		"joinSigmetrics":       "https://campus.acm.org/public/quickjoin/sigs.cfm",
		"joinAcm":              "https://campus.acm.org/public/quickjoin/assoc.cfm",
		"acmStore":             "https://store.acm.org/",
		"sigmetricsConference": "https://www.sigmetrics.org/",
	},
}
