package evaluator

// subjectKeywords maps a subject tag to the domain terms that earn a bonus
// in the essay keyword score. Unknown subjects get no bonus.
var subjectKeywords = map[string]map[string]struct{}{
	"algorithms": wordSetOf(
		"complexity", "recursion", "iteration", "sorting", "searching",
		"greedy", "dynamic", "graph", "tree", "heap",
	),
	"operating systems": wordSetOf(
		"process", "thread", "scheduling", "deadlock", "semaphore",
		"mutex", "paging", "virtual", "kernel", "interrupt",
	),
	"databases": wordSetOf(
		"transaction", "index", "normalization", "query", "join",
		"acid", "isolation", "schema", "primary", "foreign",
	),
	"networking": wordSetOf(
		"protocol", "tcp", "udp", "packet", "routing",
		"latency", "bandwidth", "socket", "dns", "http",
	),
	"web": wordSetOf(
		"http", "rest", "api", "frontend", "backend",
		"session", "cookie", "request", "response", "server",
	),
	"ai/ml": wordSetOf(
		"model", "training", "dataset", "feature", "gradient",
		"neural", "overfitting", "regression", "classification", "accuracy",
	),
}

// subjectAdvice maps a subject tag to one canned improvement suggestion.
var subjectAdvice = map[string]string{
	"algorithms":        "Relate your answer to time and space complexity where relevant.",
	"operating systems": "Ground your explanation in concrete OS mechanisms like scheduling or paging.",
	"databases":         "Mention how transactions or indexing affect the behavior you describe.",
	"networking":        "Tie your answer to specific protocols and their guarantees.",
	"web":               "Walk through the request/response cycle when explaining web behavior.",
	"ai/ml":             "Support claims with how the model is trained and evaluated.",
}

func wordSetOf(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
