package main

import (
	"github.com/spf13/cobra"

	"github.com/bmikle/paintings-ios/internal/discovery"
)

func newCandidatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates",
		Short: "Write generated WikiArt URLs to the workspace for manual checking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(createWorkspace, func(s *session) error {
				rec, err := s.reconciler(nil, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				summary, err := rec.GenerateCandidates(cmd.Context(), s.candidates())
				return finish(cmd.OutOrStdout(), "Candidates", summary, err)
			})
		},
	}
}

func newFindURLsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "find-urls",
		Short: "Check WikiArt URL patterns and record the first that exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(createWorkspace, func(s *session) error {
				client := s.client(s.settings.HTTP.CheckDelayDuration())
				rec, err := s.reconciler(client, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				summary, err := rec.FindWikiArtURLs(cmd.Context(), s.candidates(), client)
				return finish(cmd.OutOrStdout(), "WikiArt URLs", summary, err)
			})
		},
	}
}

func newFindWikidataCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "find-wikidata",
		Short: "Look up images on Wikidata for rows without a source URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(requireWorkspace, func(s *session) error {
				client := s.client(s.settings.HTTP.SearchDelayDuration())
				rec, err := s.reconciler(client, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				d := s.settings.Discovery
				finder := &discovery.Wikidata{
					Client:        client,
					APIURL:        d.WikidataAPIURL,
					CommonsAPIURL: d.CommonsAPIURL,
					Limit:         d.SearchLimit,
					Threshold:     d.MatchThreshold,
				}
				summary, err := rec.FindImageURLs(cmd.Context(), finder)
				return finish(cmd.OutOrStdout(), "Wikidata", summary, err)
			})
		},
	}
}

func newFindWikipediaCommand(ctx *commandContext) *cobra.Command {
	var thumbSize int

	cmd := &cobra.Command{
		Use:   "find-wikipedia",
		Short: "Look up article lead images on Wikipedia for rows without a source URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(requireWorkspace, func(s *session) error {
				client := s.client(s.settings.HTTP.SearchDelayDuration())
				rec, err := s.reconciler(client, cmd.OutOrStdout(), ctx.verbose())
				if err != nil {
					return err
				}
				d := s.settings.Discovery
				finder := &discovery.Wikipedia{
					Client:    client,
					APIURL:    d.WikipediaAPIURL,
					Limit:     d.SearchLimit,
					Threshold: d.MatchThreshold,
					ThumbSize: thumbSize,
				}
				summary, err := rec.FindImageURLs(cmd.Context(), finder)
				return finish(cmd.OutOrStdout(), "Wikipedia", summary, err)
			})
		},
	}

	cmd.Flags().IntVar(&thumbSize, "thumb-size", 1000, "Requested lead image width in pixels")
	return cmd
}

func (s *session) candidates() discovery.Candidates {
	return discovery.Candidates{BaseURL: s.settings.Discovery.WikiArtBaseURL}
}
