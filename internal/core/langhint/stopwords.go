package langhint

import "strings"

// stoplists hold high frequency function words per language. They drive Guess
// and the stopword density test of the web boilerplate filter
var stoplists = map[string]string{
	"fr": `a au aux avec ce ces cette dans de des du elle en est et il ils je la le les leur lui mais me même mes ne nos notre nous on ou où par pas pour qu que qui sa se ses son sont sur ta te tes toi ton tu un une vos votre vous été être avoir fait plus aussi comme tout tous toutes sans entre dont afin ainsi après avant car chaque depuis donc lors nous sera ont était sont cela ceci celle ceux`,
	"en": `a about after all also an and any are as at be because been but by can could did do does for from had has have he her his how i if in into is it its more most my no not of on or other our out over she should so some such than that the their them then there these they this those through to under up was we were what when where which while who will with would you your`,
	"es": `a al como con de del el ella ellos en es esta este están ha la las le lo los más me mi no nos o para pero por que se ser si sin sobre son su sus también un una y ya`,
	"de": `aber als am an auch auf aus bei bin bis das dass dem den der des die doch du ein eine einem einen einer es für hat ich ihr im in ist ja mit nach nicht noch nur oder sich sie sind so um und uns von vor war was wir wird zu zum zur`,
	"it": `a al alla anche che chi con da dal dei del della delle di e gli ha il in la le lo ma mi nel non per più quando se si sono su sua suo tra un una`,
	"pt": `a ao aos as com como da das de do dos e ela ele em entre era essa esse está foi mais mas na nas no nos não o os ou para pela pelo por que se sem ser seu sua são também um uma`,
	"nl": `aan al als bij dat de den der die dit door een en er het hij hoe in is je maar met na naar niet nog of om ook op over te tot uit van voor was wat we wel werd wij zal ze zijn`,
}

var stopsets = func() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{}, len(stoplists))
	for code, words := range stoplists {
		set := make(map[string]struct{}, 64)
		for _, w := range strings.Fields(words) {
			set[w] = struct{}{}
		}
		out[code] = set
	}
	return out
}()

// Stoplist returns the stopword set for an ISO 639-1 code, nil when unknown
func Stoplist(code string) map[string]struct{} {
	return stopsets[strings.ToLower(code)]
}

// Languages lists the codes Guess can return for Latin script text, sorted
func Languages() []string {
	return []string{"de", "en", "es", "fr", "it", "nl", "pt"}
}
