package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Runs      repost.RunService
	Pipeline  *pipeline.Pipeline
	Publisher repost.Publisher

	// Strategy names the style transformer, recorded with each run.
	Strategy string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag defaults from a YAML file" type:"existingfile"`
	Verbose bool            `short:"v" help:"Log debug output"`
	DB      string          `help:"History database path" env:"REPOST_DB"`
	Out     string          `short:"o" default:"output" help:"Directory runs are saved under" env:"REPOST_OUT"`

	Convert ConvertCmd `cmd:"" help:"Convert an article into a post and save it"`
	Run     RunCmd     `cmd:"" help:"Convert an article and publish the post"`
	Publish PublishCmd `cmd:"" help:"Publish a previously saved post"`
	History HistoryCmd `cmd:"" help:"List recorded runs"`
}

// PipelineFlags configure how an article is converted.
type PipelineFlags struct {
	Style       string        `default:"rule" enum:"rule,llm" help:"Post style: rule or llm"`
	Extractor   string        `default:"auto" enum:"auto,wechat,page,trafilatura,readability" help:"Content extraction strategy"`
	Render      bool          `help:"Render the article page in a headless browser"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent image downloads"`
	Enhance     bool          `help:"Boost saturation, contrast and brightness of images"`
	Quality     int           `default:"95" help:"JPEG quality of saved images"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Fetch timeout per request"`
	Retries     int           `default:"0" help:"Fetch retries with exponential backoff"`
	RateLimit   float64       `name:"rate-limit" default:"5" help:"Requests per second per host, 0 for unlimited"`

	LLMFlags `embed:""`
}

// LLMFlags configure the text generator used by the llm style.
type LLMFlags struct {
	Provider    string        `default:"openai" enum:"openai,gemini" help:"LLM provider"`
	Model       string        `help:"Model or deployment name"`
	Endpoint    string        `help:"API base URL" env:"BASE_URL"`
	AuthScheme  string        `name:"auth-scheme" default:"bearer" enum:"bearer,azure" help:"Authentication scheme for OpenAI-compatible endpoints"`
	APIKey      string        `name:"api-key" help:"API key" env:"OPENAI_API_KEY,ZHI_API_KEY,GEMINI_API_KEY"`
	Temperature float32       `default:"0.7" help:"Sampling temperature"`
	LLMTimeout  time.Duration `name:"llm-timeout" default:"60s" help:"Generation timeout"`
}

// PublishFlags configure the browser publisher.
type PublishFlags struct {
	Cookies   string        `default:".cookies.json" help:"Session cookie file" env:"REPOST_COOKIES"`
	LoginWait time.Duration `name:"login-wait" default:"5m" help:"How long to wait for a manual login"`
	Headless  bool          `help:"Run the publishing browser without a window"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	URL string `arg:"" help:"Article URL"`

	PipelineFlags `embed:""`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URL string `arg:"" help:"Article URL"`

	PipelineFlags `embed:""`
	PublishFlags  `embed:""`
}

// PublishCmd is the "publish" subcommand.
type PublishCmd struct {
	Dir string `arg:"" type:"existingdir" help:"Directory written by convert"`

	PublishFlags `embed:""`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL    string `help:"Only runs of this source URL"`
	Status string `help:"Only runs with this status (converted, published or failed)"`
	Limit  int    `short:"n" default:"20" help:"Maximum runs to show"`
}
