package convert

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"cumd/expand"
	"cumd/state"
	"cumd/style"
)

// request describes single conversion, paths are as given by user.
type request struct {
	style  string
	input  string
	output string
	format string
}

// Run is "convert" command: STYLE INPUT [OUTPUT] [FORMAT].
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	req := request{
		style:  cmd.Args().Get(0),
		input:  cmd.Args().Get(1),
		output: cmd.Args().Get(2),
		format: cmd.Args().Get(3),
	}
	if len(req.style) == 0 || len(req.input) == 0 {
		return &ConfigError{Reason: "both style and input files must be specified"}
	}
	if cmd.Args().Len() > 4 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[4:]))
	}

	log.Info("Processing starting", zap.String("style", req.style), zap.String("input", req.input))
	out, err := process(ctx, req, env, log)
	if err != nil {
		return err
	}
	log.Info("Processing completed", zap.String("to", out), zap.Duration("elapsed", env.Uptime()))
	return nil
}

// process converts document and returns name of produced file. Everything
// which may be checked without the body (format template, explicit output) is
// checked before expansion.
func process(ctx context.Context, req request, env *state.LocalEnv, log *zap.Logger) (out string, err error) {
	doc := &env.Cfg.Document

	if err := checkExtension(req.style, doc.StyleExtension, "style"); err != nil {
		return "", err
	}
	if err := checkExtension(req.input, doc.InputExtension, "input"); err != nil {
		return "", err
	}

	rules, err := compileStyle(req.style, env, log)
	if err != nil {
		return "", err
	}

	text, err := readText(req.input)
	if err != nil {
		return "", err
	}
	snapshot(env, log, "input/"+filepath.Base(req.input), req.input)
	if doc.ParagraphBreaks {
		text = strings.ReplaceAll(text, "  \n", style.DefaultStop)
	}

	var fr frame
	userFrame := len(req.format) > 0
	if userFrame {
		if fr, err = loadFrame(req.format, doc.TemplatePlaceholder); err != nil {
			return "", err
		}
		snapshot(env, log, "format/"+filepath.Base(req.format), req.format)
	}

	var dst *os.File
	if len(req.output) > 0 {
		if dst, err = createExclusive(req.output); err != nil {
			return "", err
		}
		defer func() {
			if dst != nil {
				err = multierr.Append(err, discard(dst))
			}
		}()
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	body, err := expand.New(rules, log).Expand(text)
	if err != nil {
		return "", fmt.Errorf("unable to convert '%s': %w", req.input, err)
	}
	log.Debug("Document expanded", zap.Int("in", len(text)), zap.Int("out", len(body)), zap.Duration("elapsed", time.Since(start)))

	values := Values{
		SourceFile: strings.TrimSuffix(filepath.Base(req.input), filepath.Ext(req.input)),
		StyleFile:  strings.TrimSuffix(filepath.Base(req.style), filepath.Ext(req.style)),
		Title:      doc.Title,
		Language:   doc.Language,
		Date:       time.Now().Format("2006-01-02"),
	}
	if doc.TitleFromHeading {
		if t := html.UnescapeString(headingTitle(body)); len(t) > 0 {
			values.Title = t
		} else {
			log.Debug("No heading found, keeping configured title", zap.String("title", values.Title))
		}
	}

	if !userFrame {
		if fr, err = skeletonFrame(values); err != nil {
			return "", err
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	out = buildOutputPath(req.output, doc, values, log)
	if dst == nil {
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", &IoError{Op: "create directory", Path: dir, Err: err}
			}
		}
		if dst, err = createExclusive(out); err != nil {
			return "", err
		}
	}

	f := dst
	dst = nil
	if err := writeOutput(f, fr.head, body, fr.tail); err != nil {
		return "", err
	}
	env.Rpt.Store("result"+outputExt, out)
	return out, nil
}

// snapshot keeps copy of the file in the debug report as it was read.
func snapshot(env *state.LocalEnv, log *zap.Logger, name, path string) {
	if err := env.Rpt.StoreCopy(name, path); err != nil {
		log.Warn("Unable to store file in report", zap.String("file", path), zap.Error(err))
	}
}

func checkExtension(path, ext, what string) error {
	if hasExtension(path, ext) {
		return nil
	}
	if got := filepath.Ext(path); len(got) > 0 {
		return &ConfigError{Path: path, Reason: fmt.Sprintf("wrong extension '%s' for %s file, expected '%s'", got, what, ext)}
	}
	return &ConfigError{Path: path, Reason: fmt.Sprintf("%s file must have extension '%s'", what, ext)}
}

func compileStyle(path string, env *state.LocalEnv, log *zap.Logger) (*style.RuleSet, error) {
	src, err := readText(path)
	if err != nil {
		return nil, err
	}
	snapshot(env, log, "style/"+filepath.Base(path), path)

	rules, err := style.NewCompiler(log).Compile(src)
	if err != nil {
		return nil, fmt.Errorf("unable to compile style '%s': %w", path, err)
	}
	log.Debug("Style compiled", zap.String("file", path), zap.Int("rules", rules.Len()))

	if env.Rpt != nil {
		if data, err := yaml.Marshal(rules); err == nil {
			env.Rpt.StoreData("rules.yaml", data)
		}
	}
	return rules, nil
}

// Rules is "rules" command: compiles STYLE and prints resulting rules as YAML.
func Rules(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("rules")

	path := cmd.Args().Get(0)
	if len(path) == 0 {
		return &ConfigError{Reason: "style file must be specified"}
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	if err := checkExtension(path, env.Cfg.Document.StyleExtension, "style"); err != nil {
		return err
	}

	rules, err := compileStyle(path, env, log)
	if err != nil {
		return err
	}
	return dumpRules(env, rules)
}

func dumpRules(env *state.LocalEnv, rules *style.RuleSet) error {
	enc := yaml.NewEncoder(env.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(rules); err != nil {
		return multierr.Append(fmt.Errorf("unable to output rules: %w", err), enc.Close())
	}
	return enc.Close()
}
