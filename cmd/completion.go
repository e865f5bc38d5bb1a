package cmd

import (
	"github.com/etnz/momentum/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var providers = predict.Set{"eodhd", "yahoo", "alpaca"}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	csv := predict.Files("*.csv")
	topics, _ := docs.GetAllTopics()
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":        predict.Files("*.toml"),
			"eodhd-api-key": predict.Something,
			"v":             predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"rank": {Flags: map[string]complete.Predictor{
				"input":      csv,
				"out":        predict.Dirs("*"),
				"provider":   providers,
				"d":          predict.Something,
				"lookback":   predict.Something,
				"min-months": predict.Something,
				"pdf":        predict.Nothing,
				"json":       predict.Nothing,
				"limit":      predict.Something,
			}},
			"sanitize": {
				Flags: map[string]complete.Predictor{
					"input":    csv,
					"rejected": predict.Nothing,
				},
				Args: predict.Something,
			},
			"sleeves": {Flags: map[string]complete.Predictor{
				"sleeves":  predict.Files("*.yaml"),
				"from":     predict.Something,
				"to":       predict.Something,
				"provider": providers,
				"pdf":      predict.Files("*.pdf"),
			}},
			"chart": {Flags: map[string]complete.Predictor{
				"ticker":   predict.Something,
				"from":     predict.Something,
				"to":       predict.Something,
				"entry":    predict.Something,
				"provider": providers,
				"o":        predict.Files("*.pdf"),
			}},
			"table": {Flags: map[string]complete.Predictor{
				"csv":   csv,
				"o":     predict.Files("*.pdf"),
				"n":     predict.Something,
				"title": predict.Something,
			}},
			"topic": {Args: predict.Set(append(topics, "readme", "*"))},
		},
	}
}
