package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/lindenhart/freshet"
	"github.com/lindenhart/freshet/core"
)

// Toy temporal corpus: a handful of facts that changed over time, each with
// an outdated and a fresh version, plus filler noise.
var temporalDocs = []core.Document{
	{Text: "Alice Newton was appointed CEO of ExampleCorp in January 2019.", Timestamp: "2019-01-15"},
	{Text: "Bob Ortega became CEO of ExampleCorp in June 2022, replacing Alice Newton.", Timestamp: "2022-06-01"},
	{Text: "Cara Singh is the current CEO of ExampleCorp as of September 2024.", Timestamp: "2024-09-10"},
	{Text: "ExampleCorp confirmed Cara Singh as its current CEO in a regulatory filing.", Timestamp: "2024-09-12"},

	{Text: "ExampleCorp headquarters moved to Riverton in early 2021.", Timestamp: "2021-02-20"},
	{Text: "As of 2024 the ExampleCorp headquarters is located in Northbridge.", Timestamp: "2024-03-15"},

	{Text: "The Meridian rail line schedule shows departures every 40 minutes on weekdays.", Timestamp: "2020-05-01"},
	{Text: "The updated Meridian rail line schedule shows departures every 20 minutes on weekdays.", Timestamp: "2024-06-30"},

	{Text: "The standard Lumera subscription price was 8 dollars per month in 2021.", Timestamp: "2021-11-05"},
	{Text: "The standard Lumera subscription price rose to 12 dollars per month in 2024.", Timestamp: "2024-01-10"},

	{Text: "The Harbor Tunnel closed for repairs with reopening expected in 2023.", Timestamp: "2022-09-18"},
	{Text: "The Harbor Tunnel reopened to traffic in November 2023 after repairs.", Timestamp: "2023-11-04"},
}

var fillerDocs = []core.Document{
	{Text: "Heavy rain fell across the northern valleys over the weekend.", Timestamp: "2023-03-02"},
	{Text: "The local team won the championship after a dramatic final.", Timestamp: "2021-07-15"},
	{Text: "Regional markets closed mixed on thin summer trading volume.", Timestamp: "2023-08-20"},
	{Text: "A new species of moth was described from the eastern foothills.", Timestamp: "2022-04-11"},
	{Text: "Volunteers planted two thousand trees along the river embankment.", Timestamp: "2023-10-09"},
	{Text: "The museum extended its photography exhibit through the autumn.", Timestamp: "2022-08-30"},
	{Text: "City council debated the proposed cycling corridor for three hours.", Timestamp: "2024-02-14"},
	{Text: "The orchestra performed an evening of early baroque works.", Timestamp: "2021-12-03"},
	{Text: "Farmers reported a strong apple harvest despite the late frost.", Timestamp: "2023-09-22"},
	{Text: "A solar array was installed on the roof of the public library.", Timestamp: "2024-04-05"},
	{Text: "The ferry service added a second crossing during peak season.", Timestamp: "2022-06-17"},
	{Text: "Archaeologists uncovered pottery fragments near the old mill.", Timestamp: "2021-05-28"},
	{Text: "The bakery on Almond Street celebrated fifty years in business.", Timestamp: "2023-01-19"},
	{Text: "Night skies over the plateau drew record numbers of stargazers.", Timestamp: "2022-11-08"},
	{Text: "The university opened a reading room dedicated to map collections.", Timestamp: "2024-05-21"},
}

type question struct {
	Question   string `json:"question"`
	GoldLatest string `json:"gold_latest"`
}

var questions = []question{
	{Question: "who is the current CEO of ExampleCorp", GoldLatest: "Cara Singh"},
	{Question: "where is the ExampleCorp headquarters now", GoldLatest: "Northbridge"},
	{Question: "what is the latest Meridian rail line schedule", GoldLatest: "every 20 minutes"},
	{Question: "what is the current Lumera subscription price", GoldLatest: "12 dollars"},
	{Question: "is the Harbor Tunnel open now", GoldLatest: "reopened"},
}

var (
	dbPath = flag.String("db", "./freshet_db", "BadgerDB database directory")
	qaPath = flag.String("qa", "./toy_qa.jsonl", "output path for the question file")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	ctx := context.Background()

	engine, err := freshet.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	docs := append(append([]core.Document{}, temporalDocs...), fillerDocs...)
	if err := engine.PutDocuments(ctx, docs); err != nil {
		panic(err)
	}
	slog.Info("seeded corpus", "documents", len(docs))

	if err := engine.BuildIndex(ctx); err != nil {
		panic(err)
	}
	slog.Info("built index")

	if err := writeQuestions(*qaPath); err != nil {
		panic(err)
	}
	slog.Info("wrote question file", "path", *qaPath, "questions", len(questions))
}

func writeQuestions(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, q := range questions {
		if err := enc.Encode(q); err != nil {
			return err
		}
	}
	return nil
}
