// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package transform is the closed library of post-processing steps a template
can invoke, and the registry that maps template identifiers onto them.

	+-----------+     Lookup("7") / Lookup("pad_tags")     +-----------+
	| Registry  | ---------------------------------------> | Transform |
	+-----------+                                          +-----------+
	                                                       | Apply(ctx, table, args)

Every transform decodes its named arguments into a typed params struct, checks
the columns it needs, and then walks the rows explicitly. Cells holding several
values are handled through package tags.

| id | name                     |
|----|--------------------------|
| 1  | strip_illegal_chars      |
| 2  | lowercase                |
| 3  | build_track_title        |
| 4  | set_library_id           |
| 5  | set_cd_id                |
| 6  | filter_instruments       |
| 7  | pad_tags                 |
| 8  | dedupe_tags              |
| 9  | expand_main_tags_to_alts |
*/
package transform
