package sentiment

// lexEntry is the polarity and subjectivity of one opinion word.
type lexEntry struct {
	polarity     float64
	subjectivity float64
}

// lexicon holds general English opinion adjectives plus the verbs and
// nouns that carry sentiment in market news.
var lexicon = map[string]lexEntry{
	// general
	"good":         {0.7, 0.6},
	"great":        {0.8, 0.75},
	"excellent":    {1.0, 1.0},
	"amazing":      {0.6, 0.9},
	"wonderful":    {1.0, 1.0},
	"impressive":   {1.0, 1.0},
	"nice":         {0.6, 1.0},
	"happy":        {0.8, 1.0},
	"best":         {1.0, 0.3},
	"better":       {0.5, 0.5},
	"love":         {0.5, 0.6},
	"successful":   {0.75, 0.95},
	"positive":     {0.227, 0.545},
	"bad":          {-0.7, 0.667},
	"poor":         {-0.4, 0.6},
	"terrible":     {-1.0, 1.0},
	"awful":        {-1.0, 1.0},
	"worst":        {-1.0, 1.0},
	"worse":        {-0.4, 0.6},
	"sad":          {-0.5, 1.0},
	"hate":         {-0.8, 0.9},
	"negative":     {-0.3, 0.4},
	"dismal":       {-0.6, 0.7},
	"new":          {0.136, 0.455},
	"large":        {0.214, 0.429},
	"huge":         {0.4, 0.9},
	"small":        {-0.25, 0.4},
	"high":         {0.16, 0.54},
	"low":          {0.0, 0.3},
	"cheap":        {0.4, 0.7},
	"expensive":    {-0.5, 0.7},
	"uncertain":    {-0.2, 0.6},

	// market
	"strong":       {0.433, 0.733},
	"weak":         {-0.375, 0.625},
	"robust":       {0.3, 0.5},
	"solid":        {0.2, 0.4},
	"healthy":      {0.5, 0.5},
	"bullish":      {0.5, 0.6},
	"bearish":      {-0.5, 0.6},
	"optimistic":   {0.5, 0.7},
	"pessimistic":  {-0.5, 0.7},
	"volatile":     {-0.2, 0.6},
	"risky":        {-0.3, 0.6},
	"profitable":   {0.5, 0.5},
	"profit":       {0.3, 0.3},
	"profits":      {0.3, 0.3},
	"growth":       {0.3, 0.3},
	"gain":         {0.3, 0.3},
	"gains":        {0.3, 0.3},
	"rally":        {0.4, 0.4},
	"rallies":      {0.4, 0.4},
	"surge":        {0.4, 0.5},
	"surges":       {0.4, 0.5},
	"soar":         {0.5, 0.5},
	"soars":        {0.5, 0.5},
	"upgrade":      {0.4, 0.3},
	"upgraded":     {0.4, 0.3},
	"outperform":   {0.5, 0.4},
	"record":       {0.2, 0.3},
	"loss":         {-0.4, 0.4},
	"losses":       {-0.4, 0.4},
	"decline":      {-0.3, 0.3},
	"declines":     {-0.3, 0.3},
	"slump":        {-0.5, 0.5},
	"slumps":       {-0.5, 0.5},
	"plunge":       {-0.6, 0.5},
	"plunges":      {-0.6, 0.5},
	"crash":        {-0.7, 0.6},
	"downgrade":    {-0.4, 0.3},
	"downgraded":   {-0.4, 0.3},
	"underperform": {-0.5, 0.4},
	"concern":      {-0.3, 0.4},
	"concerns":     {-0.3, 0.4},
	"risk":         {-0.2, 0.4},
	"lawsuit":      {-0.4, 0.4},
	"fraud":        {-0.8, 0.7},
	"failed":       {-0.5, 0.3},
	"miss":         {-0.3, 0.3},
	"misses":       {-0.3, 0.3},
}

// intensifiers scale the polarity and subjectivity of the next opinion word.
var intensifiers = map[string]float64{
	"very":          1.3,
	"really":        1.2,
	"highly":        1.3,
	"extremely":     1.5,
	"incredibly":    1.5,
	"exceptionally": 1.5,
	"remarkably":    1.3,
	"so":            1.2,
	"somewhat":      0.8,
	"slightly":      0.6,
	"barely":        0.5,
}

// negations flip the polarity of opinion words that follow closely.
var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"neither": true,
	"nor":     true,
	"without": true,
	"cannot":  true,
	"hardly":  true,
}
