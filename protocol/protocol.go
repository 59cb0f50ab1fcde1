// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protocol implements ctxdiff's line-oriented JSON command loop,
// an editor-integration surface modeled on common refactoring-tool wire
// protocols, scoped down to this tool's two operations.
package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aleximok/ctxdiff/changeset"
	"github.com/aleximok/ctxdiff/ctxerr"
	"github.com/aleximok/ctxdiff/line"
)

// Reply is one JSON object written back to the client.
type Reply struct {
	Fields map[string]interface{}
}

func (r Reply) String() string {
	b, err := json.Marshal(r.Fields)
	if err != nil {
		return `{"reply":"Error","message":"could not encode reply"}`
	}
	return string(b)
}

func okReply(extra map[string]interface{}) Reply {
	fields := map[string]interface{}{"reply": "OK"}
	for k, v := range extra {
		fields[k] = v
	}
	return Reply{fields}
}

func errReply(err error) Reply {
	fields := map[string]interface{}{"reply": "Error", "message": err.Error()}
	if kind, ok := ctxerr.KindOf(err); ok {
		fields["kind"] = kind.String()
	}
	return Reply{fields}
}

// Command is one request handler in the command loop.
type Command interface {
	Run(req map[string]interface{}) (Reply, error)
}

func commands() map[string]Command {
	return map[string]Command{
		"about": aboutCommand{},
		"diff":  diffCommand{},
		"apply": applyCommand{},
	}
}

// Serve runs the newline-delimited JSON request/reply loop until in hits
// EOF or a "close" command arrives.
func Serve(in io.Reader, out io.Writer) error {
	cmds := commands()
	r := bufio.NewReader(in)
	for {
		raw, err := r.ReadBytes('\n')
		if len(raw) > 0 {
			done, err := dispatch(cmds, raw, out)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return ctxerr.Wrap(ctxerr.IORead, err)
		}
	}
}

// dispatch handles one request line; done is true after a "close" command.
func dispatch(cmds map[string]Command, raw []byte, out io.Writer) (done bool, err error) {
	var req map[string]interface{}
	if err := json.Unmarshal(raw, &req); err != nil {
		return false, writeReply(out, Reply{map[string]interface{}{"reply": "Error", "message": "invalid JSON: " + err.Error()}})
	}
	name, _ := req["command"].(string)
	if name == "close" {
		return true, writeReply(out, okReply(nil))
	}
	cmd, found := cmds[name]
	if !found {
		return false, writeReply(out, Reply{map[string]interface{}{"reply": "Error", "message": "unknown command " + name}})
	}
	reply, _ := cmd.Run(req)
	return false, writeReply(out, reply)
}

func writeReply(out io.Writer, r Reply) error {
	_, err := fmt.Fprintln(out, r.String())
	return err
}

type aboutCommand struct{}

func (aboutCommand) Run(map[string]interface{}) (Reply, error) {
	return okReply(map[string]interface{}{
		"tool":    "ctxdiff",
		"about":   "context-anchored line differ/patcher",
		"version": "1.0",
	}), nil
}

type diffCommand struct{}

func (diffCommand) Run(req map[string]interface{}) (Reply, error) {
	refPath, _ := req["reference"].(string)
	dstPath, _ := req["destination"].(string)
	if refPath == "" || dstPath == "" {
		err := ctxerr.New(ctxerr.BadInput, "diff requires \"reference\" and \"destination\"")
		return errReply(err), err
	}

	source, err := readStore(refPath)
	if err != nil {
		return errReply(err), err
	}
	dest, err := readStore(dstPath)
	if err != nil {
		return errReply(err), err
	}

	var buf strings.Builder
	if err := changeset.Build(source, dest, &buf); err != nil {
		return errReply(err), nil
	}
	return okReply(map[string]interface{}{"changeset": buf.String()}), nil
}

type applyCommand struct{}

func (applyCommand) Run(req map[string]interface{}) (Reply, error) {
	refPath, _ := req["reference"].(string)
	csText, _ := req["changeset"].(string)
	if refPath == "" || csText == "" {
		err := ctxerr.New(ctxerr.BadInput, "apply requires \"reference\" and \"changeset\"")
		return errReply(err), err
	}

	source, err := readStore(refPath)
	if err != nil {
		return errReply(err), err
	}

	result, err := changeset.Apply(source, strings.NewReader(csText))
	if err != nil {
		return errReply(err), nil
	}
	var buf strings.Builder
	if _, err := result.WriteTo(&buf); err != nil {
		wrapped := ctxerr.Wrap(ctxerr.IOWrite, err)
		return errReply(wrapped), nil
	}
	return okReply(map[string]interface{}{"text": buf.String()}), nil
}

func readStore(path string) (*line.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.CantOpen, err)
	}
	defer f.Close()
	s, err := line.Read(f)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.IORead, err)
	}
	return s, nil
}
