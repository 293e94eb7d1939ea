package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phonebook-parser/internal/busword"
	"github.com/phonebook-parser/internal/classify"
	"github.com/phonebook-parser/internal/learn"
	"github.com/phonebook-parser/internal/parser"
	"github.com/phonebook-parser/internal/store"
	"github.com/phonebook-parser/internal/web"
)

var (
	dbConn *store.Connection
	logger zerolog.Logger
)

func main() {
	viper.SetEnvPrefix("PHONEBOOK")
	viper.AutomaticEnv()
	viper.SetDefault("strategy", "heuristic")
	viper.SetDefault("threshold", 65)
	viper.SetDefault("batch_workers", 8)

	rootCmd := &cobra.Command{
		Use:   "phonebook",
		Short: "Phonebook listing parser and classifier",
		Long:  `Splits unstructured phonebook listings into name, address, and phone, and classifies names as business or residential`,
	}

	rootCmd.PersistentFlags().String("strategy", "heuristic", "classifier strategy (heuristic or contextmap)")
	rootCmd.PersistentFlags().Int("threshold", 65, "business-confidence threshold")
	rootCmd.PersistentFlags().Bool("debug", false, "enable trace output")
	_ = viper.BindPFlag("strategy", rootCmd.PersistentFlags().Lookup("strategy"))
	_ = viper.BindPFlag("threshold", rootCmd.PersistentFlags().Lookup("threshold"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createParseCmd())
	rootCmd.AddCommand(createBatchCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setup() {
	level := zerolog.InfoLevel
	if viper.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)

	var err error
	dbConn, err = store.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
}

// buildEngine wires the full parsing stack from the open connection
func buildEngine() *parser.Engine {
	words := store.NewWordStore(dbConn.DB, logger)
	streets := store.NewStreetStore(dbConn.DB, logger)
	communities := store.NewCommunityStore(dbConn.DB, logger)
	analyzer := busword.NewAnalyzer(words, logger)

	classifier, err := classify.New(classify.Config{
		Strategy:  viper.GetString("strategy"),
		Threshold: viper.GetInt("threshold"),
	}, words, words, analyzer, logger)
	if err != nil {
		log.Fatalf("Failed to build classifier: %v", err)
	}

	learner := learn.New(learn.Config{
		Sink:        words,
		Communities: communities,
		Streets:     streets,
		Logger:      logger,
	})

	return parser.NewEngine(parser.Config{
		Streets:      streets,
		Communities:  communities,
		Words:        words,
		Analyzer:     analyzer,
		Classifier:   classifier,
		Learner:      learner,
		BatchWorkers: viper.GetInt("batch_workers"),
		Debug:        viper.GetBool("debug"),
		Logger:       logger,
	})
}

func createServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Run: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if viper.GetBool("debug") {
				level = zerolog.DebugLevel
			}
			serverLog := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)

			cfg := web.DefaultConfig()
			cfg.Parser.Strategy = viper.GetString("strategy")
			cfg.Parser.Threshold = viper.GetInt("threshold")
			cfg.Parser.Debug = viper.GetBool("debug")
			if port := viper.GetInt("port"); port > 0 {
				cfg.Server.Port = port
			}
			if url := viper.GetString("database_url"); url != "" {
				cfg.Database.URL = url
			}

			server, err := web.NewServer(cfg, serverLog)
			if err != nil {
				log.Fatalf("Failed to create server: %v", err)
			}
			if err := server.Start(); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		},
	}
	serveCmd.Flags().Int("port", 8080, "HTTP listen port")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	return serveCmd
}

func createParseCmd() *cobra.Command {
	var province, areaCode string
	var learnFlag bool

	parseCmd := &cobra.Command{
		Use:   "parse [listing]",
		Short: "Parse a single phonebook listing",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setup()
			defer dbConn.Close()

			engine := buildEngine()
			result := engine.Parse(context.Background(), parser.Request{
				Input:           args[0],
				Province:        province,
				DefaultAreaCode: areaCode,
				Learn:           learnFlag,
			})

			output, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(output))
		},
	}

	parseCmd.Flags().StringVar(&province, "province", "", "province filter (code or name)")
	parseCmd.Flags().StringVar(&areaCode, "area-code", "", "default area code for 7-digit numbers")
	parseCmd.Flags().BoolVar(&learnFlag, "learn", false, "feed the result into word-frequency learning")
	return parseCmd
}

func createBatchCmd() *cobra.Command {
	var province, areaCode string
	var learnFlag bool

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Parse listings from a file, one per line ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setup()
			defer dbConn.Close()

			var input *os.File
			if args[0] == "-" {
				input = os.Stdin
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					log.Fatalf("Failed to open input: %v", err)
				}
				defer f.Close()
				input = f
			}

			var lines []string
			scanner := bufio.NewScanner(input)
			for scanner.Scan() {
				if line := scanner.Text(); line != "" {
					lines = append(lines, line)
				}
			}
			if err := scanner.Err(); err != nil {
				log.Fatalf("Failed to read input: %v", err)
			}

			engine := buildEngine()
			batch, err := engine.ParseBatch(context.Background(), parser.BatchRequest{
				Inputs:          lines,
				Province:        province,
				DefaultAreaCode: areaCode,
				Learn:           learnFlag,
			})
			if err != nil {
				log.Fatalf("Batch parse failed: %v", err)
			}

			output, _ := json.MarshalIndent(batch, "", "  ")
			fmt.Println(string(output))
			fmt.Fprintf(os.Stderr, "Processed %d listings: %d succeeded, %d failed\n",
				batch.TotalProcessed, batch.SuccessCount, batch.FailureCount)
		},
	}

	batchCmd.Flags().StringVar(&province, "province", "", "province filter (code or name)")
	batchCmd.Flags().StringVar(&areaCode, "area-code", "", "default area code for 7-digit numbers")
	batchCmd.Flags().BoolVar(&learnFlag, "learn", false, "feed results into word-frequency learning")
	return batchCmd
}

func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			setup()
			defer dbConn.Close()

			fmt.Println("Database connection successful!")

			var count int
			if err := dbConn.DB.QueryRow("SELECT COUNT(*) FROM word_data").Scan(&count); err != nil {
				log.Printf("Error counting word_data rows: %v", err)
			} else {
				fmt.Printf("Word frequency rows: %d\n", count)
			}

			if err := dbConn.DB.QueryRow("SELECT COUNT(*) FROM street_reference").Scan(&count); err != nil {
				log.Printf("Error counting street_reference rows: %v", err)
			} else {
				fmt.Printf("Street reference rows: %d\n", count)
			}
		},
	}
}
