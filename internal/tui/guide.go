package tui

// guideText is the coding guideline shown in the guide overlay. It fixes
// the taxonomy to the four-level revision used by the production sample:
// MODERATE covers qualified or partial amplification only, and NONE is
// the default when in doubt.
const guideText = `CLASSIFICATION GUIDE

Does the speaker express a belief about the financial accelerator or
credit channel — whether credit market conditions AMPLIFY economic
shocks through feedback between financial conditions and real activity?

STRONG — credit markets SIGNIFICANTLY amplify shocks.
  Indicators: "magnifies", "amplifies", "reinforces", "feedback loop",
  "self-reinforcing", "spiral", "contagion", causal chains like
  tighter credit -> weaker balance sheets -> tighter credit.
  Example: "Tighter credit conditions are amplifying the downturn as
  weakening balance sheets further constrain lending."

MODERATE — QUALIFIED or PARTIAL amplification.
  Indicators: "some amplification", "modest feedback", conditional on
  sector or balance-sheet strength, "less amplification than past cycles".
  Example: "Credit conditions are creating some amplification, but
  effects are more modest than in previous cycles."

WEAK — credit markets have LITTLE or NO amplifying effect.
  Indicators: "despite tight credit", "one-time effect", "no feedback",
  "strong balance sheets", "driven by fundamentals not credit".
  Example: "Despite tighter lending standards, business investment has
  remained robust."

NONE — no financial accelerator belief expressed (default).
  Use when the quote mentions only credit OR real activity, mentions
  both without a causal amplification link, describes data without
  interpreting a mechanism, or describes direct effects with no
  feedback dynamics. "Credit affects spending" alone is NOT enough:
  the quote must show amplification, feedback, or reinforcing dynamics.

SPECIAL CASES
  Forecasts: classify only when the reasoning reveals credit channel
  logic. "I forecast slower growth" -> none; "... because credit
  tightening will amplify the slowdown" -> strong.
  Historical references: classify only when the speaker endorses or
  rejects the mechanism. "Credit was tight in 2008" -> none; "2008
  showed how credit dynamics amplify shocks" -> strong.
  One-time vs feedback: "higher rates will reduce credit-financed
  spending" -> none (direct); "higher rates will trigger feedback where
  falling collateral values tighten credit further" -> strong.

When in doubt, select NONE.`
