// Package core has core logic for rasterizing segments into annual maps and refining them.
package core

import (
	"context"
	"fmt"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/schema"
)

// ExecuteBlend builds an annual land-cover map from per-row segment caches
// and writes it to cfg.OutputPath. It serves as the main entry point for the
// 'blend' command. Errors wrap the contract sentinels so callers can map them
// to exit codes.
func ExecuteBlend(ctx context.Context, cfg *contract.Config, source contract.SegmentSource,
	reader contract.RasterReader, writer contract.RasterWriter, mgr contract.StoreManager) (*schema.RunReport, error) {
	// --- 0. Output Guard ---
	if err := contract.CheckOutputPath(cfg.OutputPath, cfg.Overwrite); err != nil {
		log.Errorw(fmt.Sprintf("%s already exists.", cfg.OutputPath))
		return nil, err
	}

	// --- 1. Read Inputs ---
	log.Infow(fmt.Sprintf("Reading spatial reference from: %s", cfg.ReferencePath))
	geo, err := reader.ReadGeo(cfg.ReferencePath)
	if err != nil {
		log.Errorw(fmt.Sprintf("Failed to read spatial reference from %s", cfg.ReferencePath), "error", err)
		return nil, fmt.Errorf("%w: spatial reference %s: %v", contract.ErrInputUnreadable, cfg.ReferencePath, err)
	}

	var landCover *schema.Grid
	if cfg.LandCoverPath != "" {
		log.Infow(fmt.Sprintf("Reading land cover: %s", cfg.LandCoverPath))
		lc, _, err := reader.ReadStack(cfg.LandCoverPath)
		if err != nil {
			log.Errorw(fmt.Sprintf("Failed to read land cover: %s", cfg.LandCoverPath), "error", err)
			return nil, fmt.Errorf("%w: land cover %s: %v", contract.ErrInputUnreadable, cfg.LandCoverPath, err)
		}
		landCover = Replicate(lc, cfg.CoarseFactor)
	}

	// --- 2. Begin Run Tracking (if configured) ---
	tracker := beginTracking(mgr, schema.BlendRun, map[string]any{
		"segments_dir": cfg.SegmentsDir,
		"output":       cfg.OutputPath,
		"reference":    cfg.ReferencePath,
		"land_cover":   cfg.LandCoverPath,
		"recursive":    cfg.Recursive,
		"workers":      cfg.Workers,
	})

	// --- 3. Compose ---
	log.Infow("Start generating map...", "lines", geo.Lines, "samples", geo.Samples)
	grid, report, err := Compose(ctx, geo, source, landCover, OptionsFromConfig(cfg, string(schema.BlendRun)))
	if err != nil {
		if report != nil && report.Succeeded() == 0 {
			log.Errorw("Nothing is processed.")
		}
		tracker.finish(report, err)
		return report, err
	}

	// --- 4. Write Output ---
	log.Infow(fmt.Sprintf("Writing output to: %s", cfg.OutputPath))
	if err := writer.WriteStack(cfg.OutputPath, grid, geo, cfg.BlendWrite); err != nil {
		log.Errorw(fmt.Sprintf("Failed to write output to %s", cfg.OutputPath), "error", err)
		err = fmt.Errorf("%w: %v", contract.ErrWriteFailed, err)
		tracker.finish(report, err)
		return report, err
	}

	// --- 5. End Run Tracking ---
	tracker.finish(report, nil)
	log.Infow("Process completed.")
	log.Infow(fmt.Sprintf("%d/%d lines successful.", report.Succeeded(), geo.Lines))
	return report, nil
}

// ExecuteRefine applies the refinement rules to a classified annual map and
// writes the result to cfg.OutputPath. It serves as the main entry point for
// the 'refine' command.
func ExecuteRefine(ctx context.Context, cfg *contract.Config, reader contract.RasterReader,
	writer contract.RasterWriter, mgr contract.StoreManager) (*schema.RunReport, error) {
	// --- 0. Output Guard ---
	if err := contract.CheckOutputPath(cfg.OutputPath, cfg.Overwrite); err != nil {
		log.Errorw(fmt.Sprintf("%s already exists.", cfg.OutputPath))
		return nil, err
	}

	// --- 1. Read Inputs ---
	log.Infow("Reading input maps...")
	grid, geo, err := reader.ReadStack(cfg.ClassifiedPath)
	if err != nil {
		log.Errorw("Failed to read input maps.", "path", cfg.ClassifiedPath, "error", err)
		return nil, fmt.Errorf("%w: classified map %s: %v", contract.ErrInputUnreadable, cfg.ClassifiedPath, err)
	}
	lc, _, err := reader.ReadStack(cfg.LandCoverPath)
	if err != nil {
		log.Errorw("Failed to read input maps.", "path", cfg.LandCoverPath, "error", err)
		return nil, fmt.Errorf("%w: land cover %s: %v", contract.ErrInputUnreadable, cfg.LandCoverPath, err)
	}
	landCover := Replicate(lc, cfg.CoarseFactor)

	// --- 2. Begin Run Tracking (if configured) ---
	tracker := beginTracking(mgr, schema.RefineRun, map[string]any{
		"classified": cfg.ClassifiedPath,
		"land_cover": cfg.LandCoverPath,
		"output":     cfg.OutputPath,
		"workers":    cfg.Workers,
	})

	// --- 3. Refine ---
	log.Infow("Refining maps...", "lines", grid.Lines, "samples", grid.Samples)
	refined, report, err := RefineGrid(ctx, grid, landCover, &cfg.Rules, OptionsFromConfig(cfg, string(schema.RefineRun)))
	if err != nil {
		log.Errorw("Failed to refine results.", "error", err)
		tracker.finish(report, err)
		return report, err
	}

	// --- 4. Write Output ---
	log.Infow("Writing output...")
	if err := writer.WriteStack(cfg.OutputPath, refined, geo, cfg.RefineWrite); err != nil {
		log.Errorw(fmt.Sprintf("Failed to write output to %s", cfg.OutputPath), "error", err)
		err = fmt.Errorf("%w: %v", contract.ErrWriteFailed, err)
		tracker.finish(report, err)
		return report, err
	}

	// --- 5. End Run Tracking ---
	tracker.finish(report, nil)
	log.Infow("Process completed.")
	log.Infow(fmt.Sprintf("%d/%d lines successful.", report.Succeeded(), grid.Lines))
	return report, nil
}
