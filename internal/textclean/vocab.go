package textclean

// fillers are discourse words and phrases that carry no content in spoken Indonesian.
var fillers = []string{
	"eh", "emm", "em", "hmm", "hmmm", "ehem", "anu", "apa ya", "gitu", "gitu ya", "kayak", "kayaknya",
	"semacam", "apa namanya", "istilahnya", "jadi", "lah", "dong", "deh", "sih", "kan", "gak sih", "ya",
	"ya ya", "iya iya", "oke deh", "btw", "by the way", "nggak tau ya", "ga tau ya", "maksudnya", "ibaratnya",
	"yaudah", "terus", "lalu", "nah", "loh", "aduh", "waduh", "astaga", "wkwk", "hehe", "haha", "hadeh",
	"begitu", "pokoknya", "sebenarnya", "intinya", "menurut saya", "menurut gue", "kira-kira", "kayak gini",
	"gimana ya", "entahlah", "ngerti ga", "tau ga", "gatau deh", "aslinya", "sejujurnya", "pada akhirnya",
	"sebetulnya", "seharusnya", "toh", "malah", "kayak apa", "maksudku", "apa gitu", "apa sih",
}

// replacements maps informal abbreviations to their written form.
// An empty value drops the token.
var replacements = map[string]string{
	"btw": "", "gk": "nggak", "ga": "nggak", "td": "tadi", "yg": "yang",
	"dr": "dari", "dsb": "dan sebagainya", "dll": "dan lain-lain", "sdh": "sudah", "utk": "untuk",
	"tp": "tapi", "krn": "karena", "dgn": "dengan", "dg": "dengan", "sm": "sama",
	"aja": "saja", "trs": "terus", "blm": "belum", "udh": "sudah", "jd": "jadi",
}
