// Package recommend holds the user-similarity recommendation math.
//
// Everything here is a pure function over plain slices and sets so the
// pipeline can be tested without storage or a cache:
//
//  1. Vectorize encodes a user's preference set against one ordered list of
//     selectable preference ids.
//  2. CosineSimilarity and RankSimilar score every other user against the
//     requester and keep the positive scores, best first.
//  3. BuildLikedMatrix and ColumnSums turn similar users' likes into one
//     aggregate score per restaurant (a sum, never an average).
//  4. Rank orders restaurants by aggregate score and assigns 1-based ranks.
//
// Ties are broken by ascending id everywhere so repeated runs over the same
// input produce identical output.
package recommend
