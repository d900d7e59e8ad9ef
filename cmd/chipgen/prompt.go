package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

const inputPromptMessage = "input csv filename:"

var errNoInput = errors.New("input csv filename is required")

// promptInputPath asks for the CSV path. Terminals get a survey prompt;
// anything else is read as a single line so the tool stays scriptable.
func promptInputPath(ctx context.Context, in io.Reader, out io.Writer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		answer string
		err    error
	)
	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	if inOK && outOK && isTerminal(inFile) && isTerminal(outFile) {
		answer, err = surveyInput(inFile, outFile)
	} else {
		answer, err = readLine(in, out)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", errNoInput
	}
	return answer, nil
}

func surveyInput(in, out *os.File) (string, error) {
	var answer string
	prompt := &survey.Input{Message: inputPromptMessage}
	if err := survey.AskOne(prompt, &answer, survey.WithStdio(in, out, os.Stderr)); err != nil {
		return "", translateSurveyErr(err)
	}
	return answer, nil
}

func readLine(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, inputPromptMessage+" ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input filename: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", errNoInput
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return context.Canceled
	}
	return err
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
