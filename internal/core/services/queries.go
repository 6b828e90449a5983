// Copyright 2025 CineCraft, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services contains the business logic for interacting with data
// sources. This file centralizes the BigQuery SQL query strings used by
// the report service. Table names use fmt.Sprintf format verbs, since
// BigQuery does not parameterize identifiers; caller-supplied values
// bind through named query parameters.
package services

const (
	// QryFindAnalysisById looks up one complete analysis report by its
	// unique ID. The ID arrives from a URL path, so it binds as the @id
	// query parameter rather than being spliced into the SQL.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the analysis table.
	QryFindAnalysisById = "SELECT * from `%s` WHERE id = @id"

	// QryListRecentAnalyses returns the most recent reports in reverse
	// chronological order, for the report browsing endpoint.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the analysis table.
	// - `%d`: The row limit.
	QryListRecentAnalyses = "SELECT * from `%s` ORDER BY created_at DESC LIMIT %d"
)
