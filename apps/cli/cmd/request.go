package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qbx2/declrest"
	"github.com/qbx2/declrest/packages/config"
	dhttp "github.com/qbx2/declrest/packages/http"
)

var requestCmd = &cobra.Command{
	Use:   "request <endpoint>",
	Short: "Declare and send one HTTP request",
	Long: `Declare one request from flags and send it.

Header, query, form and body values are treated as templates: {name}
placeholders resolve against --set values and builtin functions such
as {uuid()}.

Examples:
  declrest request api.openweathermap.org -q "q=London,uk" -q "appid={key}" --set key=abc --json
  declrest request httpbin.org -X POST --path /post -F "name={user}" --set user=qbx2
  declrest request example.com --find "<title>(.*?)</title>"`,
	Args: cobra.ExactArgs(1),
	RunE: requestCommand,
}

var (
	methodFlag  string
	pathFlag    string
	headerFlags []string
	queryFlags  []string
	formFlags   []string
	bodyFlag    string
	timeoutFlag time.Duration
	jsonFlag    bool
	findFlag    string
	flagsFlag   string
	setFlags    []string
	configFlag  string
	dryRunFlag  bool
	noColorFlag bool
)

func init() {
	requestCmd.Flags().StringVarP(&methodFlag, "method", "X", "", "HTTP method (default GET)")
	requestCmd.Flags().StringVar(&pathFlag, "path", "", "request path (overrides any path in the endpoint)")
	requestCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "header as 'Key: Value' (repeatable)")
	requestCmd.Flags().StringArrayVarP(&queryFlags, "query", "q", nil, "query pair as k=v (repeatable)")
	requestCmd.Flags().StringArrayVarP(&formFlags, "form", "F", nil, "form pair as k=v (repeatable)")
	requestCmd.Flags().StringVarP(&bodyFlag, "body", "d", "", "raw request body")
	requestCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "per-request timeout")
	requestCmd.Flags().BoolVar(&jsonFlag, "json", false, "parse the response body as JSON")
	requestCmd.Flags().StringVar(&findFlag, "find", "", "extract regex matches from the response body")
	requestCmd.Flags().StringVar(&flagsFlag, "flags", "", "regexp inline flags for --find, e.g. 'is'")
	requestCmd.Flags().StringArrayVar(&setFlags, "set", nil, "template value as name=value (repeatable)")
	requestCmd.Flags().StringVar(&configFlag, "config", "", "path to a .declrest.yml config file")
	requestCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "print the resolved request without sending it")
	requestCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

func requestCommand(cmd *cobra.Command, args []string) error {
	if noColorFlag {
		color.NoColor = true
	}

	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	client := dhttp.NewClient(cfg.ClientOptions()...)

	opts := []declrest.Option{
		declrest.Endpoint(args[0]),
		declrest.WithClient(client),
	}
	switch {
	case pathFlag != "":
		method := strings.ToUpper(firstNonEmpty(methodFlag, "GET"))
		opts = append(opts, declrest.Method(method, declrest.T(pathFlag)))
	case methodFlag != "":
		opts = append(opts, declrest.Method(strings.ToUpper(methodFlag)))
	}
	for _, h := range headerFlags {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("invalid header %q, want 'Key: Value'", h)
		}
		opts = append(opts, declrest.Header(strings.TrimSpace(key), declrest.T(strings.TrimSpace(value))))
	}
	for _, q := range queryFlags {
		key, value, ok := strings.Cut(q, "=")
		if !ok {
			return fmt.Errorf("invalid query pair %q, want k=v", q)
		}
		opts = append(opts, declrest.Query(key, declrest.T(value)))
	}
	for _, f := range formFlags {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid form pair %q, want k=v", f)
		}
		opts = append(opts, declrest.Form(key, declrest.T(value)))
	}
	if bodyFlag != "" {
		opts = append(opts, declrest.Body(declrest.T(bodyFlag)))
	}
	if timeoutFlag > 0 {
		opts = append(opts, declrest.Timeout(timeoutFlag))
	}
	if jsonFlag {
		opts = append(opts, declrest.JSONDecode())
	}
	if findFlag != "" {
		opts = append(opts, declrest.Findall(findFlag, flagsFlag))
	}

	overrides := declrest.Overrides{}
	for _, s := range setFlags {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, want name=value", s)
		}
		overrides[key] = value
	}

	req := declrest.New(opts...)

	if dryRunFlag {
		desc, err := req.Describe(nil, overrides)
		if err != nil {
			return err
		}
		printDescriptor(cmd, desc)
		return nil
	}

	result, err := req.Call(context.Background(), nil, overrides)
	if err != nil {
		return err
	}
	printResult(cmd, result)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printDescriptor(cmd *cobra.Command, d *declrest.Descriptor) {
	bold := color.New(color.Bold)
	out := cmd.OutOrStdout()
	bold.Fprintf(out, "%s %s://%s%s\n", d.Method, d.Scheme, d.Host, d.URL)
	for k, v := range d.Headers {
		fmt.Fprintf(out, "%s: %s\n", k, v)
	}
	if d.Timeout > 0 {
		fmt.Fprintf(out, "timeout: %s\n", d.Timeout)
	}
	if len(d.Body) > 0 {
		fmt.Fprintf(out, "\n%s\n", d.Body)
	}
}

func printResult(cmd *cobra.Command, result any) {
	out := cmd.OutOrStdout()
	switch v := result.(type) {
	case *declrest.Response:
		statusColor := color.New(color.FgGreen)
		if !v.IsSuccess() {
			statusColor = color.New(color.FgRed)
		}
		statusColor.Fprintln(out, v.Status)
		fmt.Fprintln(out, v.BodyString())
	case []byte:
		fmt.Fprintf(out, "%s\n", v)
	case string:
		fmt.Fprintln(out, v)
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(out, "%v\n", v)
			return
		}
		fmt.Fprintf(out, "%s\n", data)
	}
}
