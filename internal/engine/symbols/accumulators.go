package symbols

import "log/slog"

// Accumulators hold the corpus-wide, append-only event lists of a run.
// Order is insertion order and duplicates are kept; consumers only test
// membership.
type Accumulators struct {
	DefinedFuncs    []Occurrence // functions and classes
	UsedFuncs       []string
	DefinedProps    []Occurrence
	DefinedAttrs    []Occurrence
	UsedAttrs       []string
	DefinedVars     []Occurrence
	UsedVars        []string
	TupleAssignVars []string

	logger *slog.Logger
}

func NewAccumulators(logger *slog.Logger) *Accumulators {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accumulators{logger: logger}
}

func (a *Accumulators) defineFunc(occ Occurrence) {
	a.logger.Debug("defined_funcs <-", "name", occ.Name, "kind", occ.Kind.String(), "path", occ.File, "line", occ.Line)
	a.DefinedFuncs = append(a.DefinedFuncs, occ)
}

func (a *Accumulators) useFunc(name string) {
	a.UsedFuncs = append(a.UsedFuncs, name)
}

func (a *Accumulators) defineProp(occ Occurrence) {
	a.logger.Debug("defined_props <-", "name", occ.Name, "path", occ.File, "line", occ.Line)
	a.DefinedProps = append(a.DefinedProps, occ)
}

func (a *Accumulators) defineAttr(occ Occurrence) {
	a.logger.Debug("defined_attrs <-", "name", occ.Name, "path", occ.File, "line", occ.Line)
	a.DefinedAttrs = append(a.DefinedAttrs, occ)
}

func (a *Accumulators) useAttr(name string) {
	a.logger.Debug("used_attrs <-", "name", name)
	a.UsedAttrs = append(a.UsedAttrs, name)
}

func (a *Accumulators) defineVar(occ Occurrence) {
	a.logger.Debug("defined_vars <-", "name", occ.Name, "path", occ.File, "line", occ.Line)
	a.DefinedVars = append(a.DefinedVars, occ)
}

func (a *Accumulators) useVar(name string) {
	a.logger.Debug("used_vars <-", "name", name)
	a.UsedVars = append(a.UsedVars, name)
}

func (a *Accumulators) exemptTupleVar(name string) {
	a.logger.Debug("tuple_assign_vars <-", "name", name)
	a.TupleAssignVars = append(a.TupleAssignVars, name)
}
