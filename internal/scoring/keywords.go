package scoring

// Keyword tables driving intent, sentiment, urgency, and topic grouping.
// These are deliberately plain substring lists, not ML: results must be
// explainable and stable across runs.

var buyingKeywords = []string{
	"buy", "buying", "purchase", "looking for a", "interested in",
	"want to see", "make an offer", "pre-approved", "preapproved",
}

var sellingKeywords = []string{
	"sell", "selling", "list my", "listing", "put on the market",
	"what's my home worth", "home value",
}

var urgencyKeywords = []string{
	"immediately", "asap", "urgent", "right away", "as soon as possible",
	"need", "this week", "this month",
}

var lowUrgencyKeywords = []string{
	"next year", "someday", "eventually", "no rush", "not in a hurry",
	"down the road",
}

var negativeIntentKeywords = []string{
	"just curious", "not sure", "just looking", "just browsing",
	"not interested", "maybe later", "only wondering",
}

var positiveWords = []string{
	"great", "good", "perfect", "excellent", "love", "wonderful",
	"thank you", "thanks", "appreciate", "excited", "helpful", "yes",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "frustrated", "annoyed",
	"angry", "disappointed", "waste", "useless", "no way",
}

// Topic grouping: keyword -> one of four fixed categories.

var keyTopicKeywords = map[string]string{
	"buy":        "buying",
	"purchase":   "buying",
	"sell":       "selling",
	"listing":    "selling",
	"mortgage":   "financing",
	"loan":       "financing",
	"financing":  "financing",
	"investment": "investment",
	"rental":     "investment",
	"viewing":    "viewing",
	"showing":    "viewing",
	"open house": "viewing",
}

var objectionKeywords = map[string]string{
	"too expensive":         "price",
	"over budget":           "price",
	"can't afford":          "price",
	"think about it":        "hesitation",
	"not ready":             "hesitation",
	"already have an agent": "existing agent",
	"working with someone":  "existing agent",
}

var painPointKeywords = map[string]string{
	"can't find":          "inventory",
	"nothing available":   "inventory",
	"keep losing":         "competition",
	"outbid":              "competition",
	"running out of time": "time pressure",
	"lease ends":          "time pressure",
	"frustrated":          "process",
	"confusing":           "process",
}

var interestKeywords = map[string]string{
	"school":          "schools",
	"school district": "schools",
	"pool":            "amenities",
	"garage":          "amenities",
	"garden":          "amenities",
	"backyard":        "amenities",
	"downtown":        "location",
	"commute":         "location",
	"near work":       "location",
	"quiet":           "neighborhood",
	"safe":            "neighborhood",
}
