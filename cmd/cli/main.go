package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/iho/gomoney/internal/adapter/http/dto"
	"github.com/iho/gomoney/internal/adapter/idgen"
	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/infrastructure/iso4217"
	"github.com/iho/gomoney/internal/infrastructure/locale"
	"github.com/iho/gomoney/internal/usecase"
)

type options struct {
	baseURL string
	timeout time.Duration
	locale  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "gomoney-cli",
		Short: "GoMoney CLI tool",
		Long: `A command line interface for evaluating money expressions offline
and for managing the exchange rates of a GoMoney server.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoMoney API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.locale, "locale", "", "Locale used to format results, e.g. de-CH")

	currencies := iso4217.NewProvider()
	formatter := locale.NewFormatter()

	rootCmd.AddCommand(
		newEvaluateCmd(opts, currencies, formatter),
		newDistributeCmd(opts, currencies, formatter),
		newRoundCmd(currencies),
		newCurrencyCmd(currencies),
		newFormatCmd(opts, currencies, formatter),
		newParseCmd(opts, currencies, formatter),
		newRatesCmd(opts),
	)

	return rootCmd
}

// offlineResolver resolves contexts from flags only; there is no rate store.
func offlineResolver(currencies *iso4217.Provider) *usecase.ContextResolver {
	return usecase.NewContextResolver(currencies, nil, "")
}

type contextFlags struct {
	target    string
	rates     []string
	rounding  string
	precision string
	unit      string
}

func (f *contextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.target, "target", "", "Target currency of the evaluation context")
	cmd.Flags().StringArrayVar(&f.rates, "rate", nil, "Exchange rate into the target currency as CODE=RATE, repeatable")
	cmd.Flags().StringVar(&f.rounding, "rounding", "", "Rounding mode: bankers, away_from_zero or none")
	cmd.Flags().StringVar(&f.precision, "precision", "", "Rounding precision, e.g. 0.05")
	cmd.Flags().StringVar(&f.unit, "unit", "", "Smallest distribution unit")
}

func (f *contextFlags) set() bool {
	return f.target != "" || len(f.rates) > 0 || f.rounding != "" || f.precision != "" || f.unit != ""
}

// apply overrides the fields of base named on the command line.
func (f *contextFlags) apply(base *dto.ContextRequest) (*dto.ContextRequest, error) {
	if !f.set() {
		return base, nil
	}

	req := &dto.ContextRequest{}
	if base != nil {
		*req = *base
	}

	if f.target != "" {
		req.TargetCurrency = strings.ToUpper(f.target)
	}

	if f.rounding != "" || f.precision != "" {
		mode := f.rounding
		if mode == "" {
			mode = domain.RoundingModeBankers.String()
		}
		req.Rounding = &dto.Rounding{Mode: mode}
		if f.precision != "" {
			p, err := decimal.NewFromString(f.precision)
			if err != nil {
				return nil, fmt.Errorf("invalid precision %q: %w", f.precision, err)
			}
			req.Rounding.Precision = decimal.NewNullDecimal(p)
		}
	}

	if f.unit != "" {
		u, err := decimal.NewFromString(f.unit)
		if err != nil {
			return nil, fmt.Errorf("invalid unit %q: %w", f.unit, err)
		}
		req.DistributionUnit = decimal.NewNullDecimal(u)
	}

	for _, raw := range f.rates {
		rate, err := parseRate(raw)
		if err != nil {
			return nil, err
		}
		req.ExchangeRates = append(req.ExchangeRates, rate)
	}

	return req, nil
}

func parseRate(raw string) (dto.ExchangeRateRequest, error) {
	code, value, ok := strings.Cut(raw, "=")
	if !ok {
		return dto.ExchangeRateRequest{}, fmt.Errorf("invalid rate %q, expected CODE=RATE", raw)
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return dto.ExchangeRateRequest{}, fmt.Errorf("invalid rate %q: %w", raw, err)
	}

	return dto.ExchangeRateRequest{Source: strings.ToUpper(strings.TrimSpace(code)), Rate: rate}, nil
}

func newEvaluateCmd(opts *options, currencies *iso4217.Provider, formatter *locale.Formatter) *cobra.Command {
	var (
		file  string
		flags contextFlags
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a JSON money expression",
		Long: `Evaluate reads a request of the form {"expression": ..., "context": ...},
the same body POST /api/v1/evaluate accepts. Use --file - for stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.EvaluateRequest
			if err := readJSON(cmd, file, &req); err != nil {
				return err
			}

			ctxReq, err := flags.apply(req.Context)
			if err != nil {
				return err
			}
			req.Context = ctxReq

			input, err := req.ToUseCaseInput(currencies)
			if err != nil {
				return err
			}

			uc := usecase.NewEvaluationUseCase(offlineResolver(currencies), idgen.NewULIDGenerator(), nil, zerolog.Nop())
			result, err := uc.Evaluate(cmd.Context(), input)
			if err != nil {
				return err
			}

			format, err := opts.format(formatter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.EvaluationFromUseCase(result, format))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Request file, - for stdin")
	flags.register(cmd)

	return cmd
}

func newDistributeCmd(opts *options, currencies *iso4217.Provider, formatter *locale.Formatter) *cobra.Command {
	var (
		factors   []int
		parts     int
		precision string
		flags     contextFlags
	)

	cmd := &cobra.Command{
		Use:   "distribute AMOUNT CODE",
		Short: "Distribute an amount by factors or into equal parts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			req := dto.DistributeRequest{
				Amount:   amount,
				Currency: strings.ToUpper(args[1]),
				Factors:  factors,
				Parts:    parts,
			}

			if precision != "" {
				p, err := decimal.NewFromString(precision)
				if err != nil {
					return fmt.Errorf("invalid precision %q: %w", precision, err)
				}
				req.Precision = decimal.NewNullDecimal(p)
			}

			if req.Context, err = flags.apply(nil); err != nil {
				return err
			}

			input, err := req.ToUseCaseInput(currencies)
			if err != nil {
				return err
			}

			uc := usecase.NewDistributionUseCase(offlineResolver(currencies), idgen.NewULIDGenerator(), nil, zerolog.Nop())
			result, err := uc.Distribute(cmd.Context(), input)
			if err != nil {
				return err
			}

			format, err := opts.format(formatter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.DistributionFromUseCase(result, format))
		},
	}

	cmd.Flags().IntSliceVar(&factors, "factors", nil, "Distribution factors, e.g. 1,1,1")
	cmd.Flags().IntVar(&parts, "parts", 0, "Number of equal parts")
	cmd.Flags().StringVar(&precision, "slice-precision", "", "Size of the smallest slice handed out")
	cmd.MarkFlagsMutuallyExclusive("factors", "parts")
	flags.register(cmd)

	return cmd
}

func newRoundCmd(currencies *iso4217.Provider) *cobra.Command {
	var (
		mode      string
		precision string
	)

	cmd := &cobra.Command{
		Use:   "round AMOUNT [CODE]",
		Short: "Round an amount with a rounding strategy",
		Long: `Round applies a rounding strategy to AMOUNT. Without --precision the
minor unit of CODE is used.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			parsed, err := domain.ParseRoundingMode(mode)
			if err != nil {
				return err
			}

			var unit decimal.Decimal
			switch {
			case precision != "":
				if unit, err = decimal.NewFromString(precision); err != nil {
					return fmt.Errorf("invalid precision %q: %w", precision, err)
				}
			case len(args) == 2:
				c, err := currencies.Currency(args[1])
				if err != nil {
					return err
				}
				unit = c.Precision()
			case parsed != domain.RoundingModeNone:
				return errors.New("either --precision or a currency code is required")
			}

			strategy, err := domain.NewRoundingStrategy(parsed, unit)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), strategy.Round(amount).String())
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", domain.RoundingModeBankers.String(), "Rounding mode: bankers, away_from_zero or none")
	cmd.Flags().StringVar(&precision, "precision", "", "Rounding precision, e.g. 0.05")

	return cmd
}

func newCurrencyCmd(currencies *iso4217.Provider) *cobra.Command {
	return &cobra.Command{
		Use:   "currency [CODE]",
		Short: "Show an ISO 4217 currency, or list all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				all, err := currencies.All()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.CurrenciesFromDomain(all))
			}

			info, err := currencies.Lookup(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.CurrencyFromDomain(info))
		},
	}
}

func newFormatCmd(opts *options, currencies *iso4217.Provider, formatter *locale.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "format AMOUNT [CODE]",
		Short: "Format an amount for a locale",
		Long: `Format renders AMOUNT in the conventions of --locale. Without CODE the
currency of the locale region is used.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := opts.tag()
			if err != nil {
				return err
			}

			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			var cur domain.Currency
			if len(args) == 2 {
				cur, err = currencies.Currency(args[1])
			} else {
				cur, err = locale.CurrencyForLocale(tag, currencies)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Format(domain.NewMoney(amount, cur), tag))
			return nil
		},
	}
}

func newParseCmd(opts *options, currencies *iso4217.Provider, formatter *locale.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "parse TEXT CODE",
		Short: "Parse a formatted amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := opts.tag()
			if err != nil {
				return err
			}

			cur, err := currencies.Currency(args[1])
			if err != nil {
				return err
			}

			m, err := formatter.Parse(args[0], cur, tag)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), dto.MoneyFromDomain(m, nil))
		},
	}
}

func newRatesCmd(opts *options) *cobra.Command {
	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage the exchange rates of a GoMoney server",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored exchange rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/api/v1/rates", nil)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set SOURCE TARGET RATE",
		Short: "Store an exchange rate",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[2], err)
			}
			body := dto.SetRateRequest{Source: strings.ToUpper(args[0]), Target: strings.ToUpper(args[1]), Rate: rate}
			return opts.call(cmd, http.MethodPut, "/api/v1/rates", body)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete SOURCE TARGET",
		Short: "Remove an exchange rate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/rates/%s/%s", strings.ToUpper(args[0]), strings.ToUpper(args[1]))
			return opts.call(cmd, http.MethodDelete, path, nil)
		},
	}

	ratesCmd.AddCommand(listCmd, setCmd, deleteCmd)
	return ratesCmd
}

func (o *options) tag() (language.Tag, error) {
	if o.locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(o.locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", o.locale, err)
	}
	return tag, nil
}

// format returns nil without --locale so results carry no formatted field.
func (o *options) format(formatter *locale.Formatter) (dto.Format, error) {
	if o.locale == "" {
		return nil, nil
	}
	tag, err := o.tag()
	if err != nil {
		return nil, err
	}
	return func(m domain.Money) string { return formatter.Format(m, tag) }, nil
}

// call sends a request to the API and prints the JSON response.
func (o *options) call(cmd *cobra.Command, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = strings.NewReader(string(payload))
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, strings.TrimRight(o.baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed (status: %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return nil
	}

	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func readJSON(cmd *cobra.Command, file string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
