package domain

import (
	"sort"

	"github.com/hubfolio/hubfolio"
)

type SyncActionKind int

const (
	// SyncMigrateLegacyHome renames a bare-app-slug document to the
	// canonical "/home" slug in place instead of duplicating it.
	SyncMigrateLegacyHome SyncActionKind = iota
	SyncCreatePage
	SyncOverwritePage
	SyncSkipPage
)

// SyncAction is one persisted-document operation of a template sync run.
type SyncAction struct {
	Kind       SyncActionKind
	SourceSlug string // template page feeding the target; empty for migrations
	TargetSlug string
	LegacySlug string // document being renamed; set for migrations only
}

// SyncPlan is the full, ordered set of writes one sync run must apply
// atomically, plus the outcome it reports.
type SyncPlan struct {
	Actions        []SyncAction
	Report         SyncReport
	AdvanceVersion bool
}

// PlanTemplateSync decides, page by page, how a destination app absorbs its
// template's page set. Migration of a legacy bare-slug home runs first so
// the create-if-absent pass sees the renamed document. The destination's
// recorded template version advances only when nothing was skipped; a
// partial sync stays at the old version so a later run is still offered.
func PlanTemplateSync(source, dest App, sourceDocs, destDocs []Document, overwrite bool) SyncPlan {
	plan := SyncPlan{}

	existing := make(map[string]bool, len(destDocs))
	for _, d := range destDocs {
		existing[d.Slug] = true
	}

	home := hubfolio.HomeSlug(dest.Slug)
	if !existing[home] && existing[dest.Slug] {
		plan.Actions = append(plan.Actions, SyncAction{
			Kind:       SyncMigrateLegacyHome,
			TargetSlug: home,
			LegacySlug: dest.Slug,
		})
		delete(existing, dest.Slug)
		existing[home] = true
	}

	pages := make([]Document, len(sourceDocs))
	copy(pages, sourceDocs)
	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })

	planned := make(map[string]bool)
	for _, page := range pages {
		target, ok := hubfolio.MapTemplateSlug(page.Slug, source.Slug, dest.Slug)
		if !ok || planned[target] {
			continue
		}
		planned[target] = true

		switch {
		case !existing[target]:
			plan.Actions = append(plan.Actions, SyncAction{
				Kind:       SyncCreatePage,
				SourceSlug: page.Slug,
				TargetSlug: target,
			})
			plan.Report.Created++
			existing[target] = true
		case overwrite:
			plan.Actions = append(plan.Actions, SyncAction{
				Kind:       SyncOverwritePage,
				SourceSlug: page.Slug,
				TargetSlug: target,
			})
			plan.Report.Overwritten++
		default:
			plan.Actions = append(plan.Actions, SyncAction{
				Kind:       SyncSkipPage,
				SourceSlug: page.Slug,
				TargetSlug: target,
			})
			plan.Report.Skipped++
		}
	}

	plan.AdvanceVersion = plan.Report.Skipped == 0
	if plan.AdvanceVersion {
		plan.Report.AppliedVersion = source.TemplateVersion
	} else {
		plan.Report.AppliedVersion = dest.TemplateVersion
	}

	return plan
}
